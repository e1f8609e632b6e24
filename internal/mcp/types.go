package mcp

// ListZonesInput is the input for the list_zones tool.
type ListZonesInput struct{}

// PixelRect is a resolved rectangle in root-window pixel coordinates.
type PixelRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ZoneSummary describes one zone in the list_zones output.
type ZoneSummary struct {
	Zone      int        `json:"zone"`
	Name      string     `json:"name,omitempty"`
	Monitor   int        `json:"monitor"`
	XPct      float64    `json:"x_pct"`
	YPct      float64    `json:"y_pct"`
	WidthPct  float64    `json:"width_pct"`
	HeightPct float64    `json:"height_pct"`
	Orphaned  bool       `json:"orphaned,omitempty"`
	Pixels    *PixelRect `json:"pixels,omitempty"`
}

// ListZonesOutput is the output for the list_zones tool.
type ListZonesOutput struct {
	Zones       []ZoneSummary `json:"zones"`
	Fingerprint string        `json:"fingerprint"`
}

// GetMonitorsInput is the input for the get_monitors tool.
type GetMonitorsInput struct{}

// MonitorSummary describes one monitor in the get_monitors output.
type MonitorSummary struct {
	Monitor  int       `json:"monitor"`
	Name     string    `json:"name,omitempty"`
	Primary  bool      `json:"primary"`
	Bounds   PixelRect `json:"bounds"`
	WorkArea PixelRect `json:"work_area"`
}

// GetMonitorsOutput is the output for the get_monitors tool.
type GetMonitorsOutput struct {
	Monitors []MonitorSummary `json:"monitors"`
}

// SnapWindowInput is the input for the snap_window tool.
type SnapWindowInput struct {
	Zone   int    `json:"zone" jsonschema:"required,Zone number (1-based, as shown by list_zones)"`
	Window uint32 `json:"window,omitempty" jsonschema:"Optional X11 window ID to snap. Defaults to the focused window."`
}

// SnapWindowOutput is the output for the snap_window tool.
type SnapWindowOutput struct {
	Moved bool `json:"moved"`
	Zone  int  `json:"zone"`
}

// ShowZonesInput is the input for the show_zones tool.
type ShowZonesInput struct{}

// HideZonesInput is the input for the hide_zones tool.
type HideZonesInput struct{}

// OverlayOutput reports overlay visibility after show_zones or hide_zones.
type OverlayOutput struct {
	Visible bool `json:"visible"`
}

// UpdateZoneInput is the input for the update_zone tool.
type UpdateZoneInput struct {
	Zone      int     `json:"zone" jsonschema:"required,Zone number to replace (1-based)"`
	Monitor   int     `json:"monitor" jsonschema:"required,Target monitor (1-based ordinal)"`
	XPct      float64 `json:"x_pct" jsonschema:"Left edge as percent (0-100) of the monitor work area"`
	YPct      float64 `json:"y_pct" jsonschema:"Top edge as percent (0-100) of the monitor work area"`
	WidthPct  float64 `json:"width_pct" jsonschema:"required,Width as percent (0-100) of the monitor work area"`
	HeightPct float64 `json:"height_pct" jsonschema:"required,Height as percent (0-100) of the monitor work area"`
	Name      string  `json:"name,omitempty" jsonschema:"Optional display name for the zone"`
}

// UpdateZoneOutput is the output for the update_zone tool.
type UpdateZoneOutput struct {
	Zone    int  `json:"zone"`
	Updated bool `json:"updated"`
}

// SaveLayoutInput is the input for the save_layout tool.
type SaveLayoutInput struct{}

// SaveLayoutOutput is the output for the save_layout tool.
type SaveLayoutOutput struct {
	Saved bool `json:"saved"`
}

// ResetZonesInput is the input for the reset_zones tool.
type ResetZonesInput struct{}

// ResetZonesOutput is the output for the reset_zones tool.
type ResetZonesOutput struct {
	Reset bool `json:"reset"`
	Zones int  `json:"zones"`
}
