package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing        CommandType = "PING"
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandGetZones    CommandType = "GET_ZONES"
	CommandSetZones    CommandType = "SET_ZONES"
	CommandUpdateZone  CommandType = "UPDATE_ZONE"
	CommandShowZones   CommandType = "SHOW_ZONES"
	CommandHideZones   CommandType = "HIDE_ZONES"
	CommandToggleZones CommandType = "TOGGLE_ZONES"
	CommandSnap        CommandType = "SNAP"
	CommandSaveLayout  CommandType = "SAVE_LAYOUT"
	CommandResetZones  CommandType = "RESET_ZONES"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Monitors      int    `json:"monitors"`
	Zones         int    `json:"zones"`
	OrphanedZones int    `json:"orphaned_zones"`
	Fingerprint   string `json:"fingerprint"`
	OverlayShown  bool   `json:"overlay_shown"`
	SettingsPath  string `json:"settings_path"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	WorkX      int    `json:"work_x"`
	WorkY      int    `json:"work_y"`
	WorkWidth  int    `json:"work_width"`
	WorkHeight int    `json:"work_height"`
	Primary    bool   `json:"primary"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// RectInfo is a pixel rectangle in desktop coordinates.
type RectInfo struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ZoneSpec describes a zone in monitor work-area percentages, as stored.
type ZoneSpec struct {
	Monitor int     `json:"monitor"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Name    string  `json:"name,omitempty"`
}

// ZoneInfo is one configured zone plus its current resolution. Number is the
// 1-based position in the zone list; it is what hotkeys and the palette
// address. Rect is nil while the zone is orphaned.
type ZoneInfo struct {
	Number   int       `json:"number"`
	Name     string    `json:"name,omitempty"`
	Monitor  int       `json:"monitor"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Orphaned bool      `json:"orphaned,omitempty"`
	Rect     *RectInfo `json:"rect,omitempty"`
}

// ZonesData represents the data returned by GET_ZONES
type ZonesData struct {
	Zones       []ZoneInfo `json:"zones"`
	Fingerprint string     `json:"fingerprint"`
}

// SetZonesPayload represents the payload for SET_ZONES
type SetZonesPayload struct {
	Zones []ZoneSpec `json:"zones"`
}

// UpdateZonePayload represents the payload for UPDATE_ZONE. Zone is the
// 1-based list position being replaced.
type UpdateZonePayload struct {
	Zone int      `json:"zone"`
	Spec ZoneSpec `json:"spec"`
}

// SnapPayload represents the payload for SNAP. Window 0 targets the
// currently active window.
type SnapPayload struct {
	Zone   int    `json:"zone"`
	Window uint32 `json:"window,omitempty"`
}

// SnapResult reports whether the window verifiably moved.
type SnapResult struct {
	Moved bool `json:"moved"`
}

// OverlayState reports overlay visibility after SHOW/HIDE/TOGGLE_ZONES.
type OverlayState struct {
	Visible bool `json:"visible"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
