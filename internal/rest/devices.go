package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/signage/api"
	"github.com/dfryer1193/signage/signage/application"
)

func toRegistration(req *api.RegisterDeviceRequest) application.RegistrationRequest {
	return application.RegistrationRequest{
		OutletID:    strings.TrimSpace(req.OutletID),
		OrderAPIURL: req.OrderAPIURL,
		OrderAPIKey: req.OrderAPIKey,
	}
}

// ValidateOutlet checks a display's outlet code against the upstream
// directory. An invalid code is a normal response, not an error.
func (a *API) ValidateOutlet(c *gin.Context) {
	req := &api.OutletValidationRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outletID := strings.TrimSpace(req.OutletID)
	if outletID == "" {
		c.JSON(http.StatusOK, api.OutletValidation{IsValid: false, Message: "Invalid Outlet Code!"})
		return
	}

	info, err := a.devices.ValidateOutlet(c.Request.Context(), outletID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch outlets from upstream"})
		return
	}

	if !info.Valid {
		c.JSON(http.StatusOK, api.OutletValidation{IsValid: false, Message: "Invalid Outlet Code!"})
		return
	}

	c.JSON(http.StatusOK, api.OutletValidation{IsValid: true, Message: "Outlet Verified Successfully!"})
}

// RegisterDevice validates the outlet and registers the display in one
// step.
func (a *API) RegisterDevice(c *gin.Context) {
	req := &api.RegisterDeviceRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := a.devices.Register(c.Request.Context(), toRegistration(req))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.DeviceInfo{
		DeviceID:       device.ID,
		DeviceName:     device.Name,
		DeviceStatus:   device.Status,
		DeviceLocation: device.Location,
		OrderAPIURL:    device.OrderAPIURL,
		OrderAPIKey:    device.OrderAPIKey,
	})
}

// ValidateDevice is the media-screen gate: it tells a display whether to
// show media or fall back to the configuration form.
func (a *API) ValidateDevice(c *gin.Context) {
	req := &api.ValidateDeviceRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := strings.TrimSpace(req.DeviceID)
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Device ID"})
		return
	}

	access, err := a.devices.ValidateDeviceForMedia(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch outlets from upstream"})
		return
	}

	res := api.MediaAccess{
		CanAccessMedia: access.Allowed,
		Reason:         access.Reason,
	}
	if access.Outlet != nil {
		res.Outlet = &api.OutletSummary{
			OutletID:   access.Outlet.OutletID,
			OutletName: access.Outlet.OutletName,
			RegionName: access.Outlet.RegionName,
		}
	}
	if access.Device != nil {
		res.Device = &api.DeviceInfo{
			DeviceID:       access.Device.ID,
			DeviceName:     access.Device.Name,
			DeviceStatus:   access.Device.Status,
			DeviceLocation: access.Device.Location,
			OrderAPIURL:    access.Device.OrderAPIURL,
			OrderAPIKey:    access.Device.OrderAPIKey,
		}
	}

	c.JSON(http.StatusOK, res)
}

// Heartbeat records a periodic device check-in.
func (a *API) Heartbeat(c *gin.Context) {
	req := &api.HeartbeatRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.devices.Heartbeat(c.Request.Context(), req.DeviceID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
