package api

// OutletValidationRequest carries the outlet code a display submits on
// first boot.
type OutletValidationRequest struct {
	OutletID string `json:"outlet_id"`
}

// OutletValidation is the verification signal returned to the display.
type OutletValidation struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

// RegisterDeviceRequest registers a display against a validated outlet in
// one step.
type RegisterDeviceRequest struct {
	OutletID    string `json:"outlet_id"`
	OrderAPIURL string `json:"order_api_url,omitempty"`
	OrderAPIKey string `json:"order_api_key,omitempty"`
}

// DeviceInfo is the registered device as returned to callers. API
// credentials are echoed back to the device that owns them.
type DeviceInfo struct {
	DeviceID       string `json:"device_id"`
	DeviceName     string `json:"device_name"`
	DeviceStatus   string `json:"device_status"`
	DeviceLocation string `json:"device_location,omitempty"`
	OrderAPIURL    string `json:"order_api_url,omitempty"`
	OrderAPIKey    string `json:"order_api_key,omitempty"`
}

// HeartbeatRequest is a periodic device check-in.
type HeartbeatRequest struct {
	DeviceID string `json:"device_id"`
}

// ValidateDeviceRequest asks whether a display may show the media screen.
type ValidateDeviceRequest struct {
	DeviceID string `json:"device_id"`
}

// OutletSummary identifies the validated outlet a device is bound to.
type OutletSummary struct {
	OutletID   string `json:"outlet_id"`
	OutletName string `json:"outlet_name"`
	RegionName string `json:"region_name,omitempty"`
}

// MediaAccess tells a display what to render: the media screen, or the
// configuration form with the reason it was turned away.
type MediaAccess struct {
	CanAccessMedia bool           `json:"can_access_media"`
	Reason         string         `json:"reason,omitempty"`
	Outlet         *OutletSummary `json:"outlet_info,omitempty"`
	Device         *DeviceInfo    `json:"device_info,omitempty"`
}
