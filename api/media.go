// Package api holds the wire shapes served to signage displays.
package api

// MediaItem is one promotion slide in the media listing.
type MediaItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DateStart   string `json:"date_start,omitempty"`
	DateEnd     string `json:"date_end,omitempty"`
	Image       string `json:"image"`
}

// OutletImage is one outlet image joined with its outlet.
type OutletImage struct {
	ID         string `json:"id"`
	Image      string `json:"image"`
	OutletID   string `json:"outlet_id"`
	OutletName string `json:"outlet_name"`
}
