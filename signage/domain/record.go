package domain

// Record is one upstream item as delivered by the content provider: a
// base64-encoded image blob (optionally data-URI prefixed) plus descriptive
// metadata. Records are ephemeral; only their processed form is persisted.
type Record[M any] struct {
	Name     string
	RawImage string
	Meta     M
}

// Item is the public listing entry for a cached image. The binary itself is
// served separately under URL; Meta is immediately renderable even while the
// image is still being processed.
type Item[M any] struct {
	ID   string `json:"id"`
	URL  string `json:"image"`
	Meta M      `json:"meta"`
}

// MediaMeta describes a promotion slide.
type MediaMeta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DateStart   string `json:"date_start,omitempty"`
	DateEnd     string `json:"date_end,omitempty"`
}

// OutletMeta describes an outlet image joined against the outlet directory.
type OutletMeta struct {
	OutletID   string `json:"outlet_id"`
	OutletName string `json:"outlet_name"`
	RegionName string `json:"region_name,omitempty"`
}
