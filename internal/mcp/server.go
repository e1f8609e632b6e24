package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/snapzone/snapzone/internal/ipc"
)

const (
	ServerName    = "snapzone"
	ServerVersion = "0.1.0"
)

// zoneService is the daemon surface the tools call through.
// Implemented by *ipc.Client.
type zoneService interface {
	GetMonitors() (*ipc.MonitorsData, error)
	GetZones() (*ipc.ZonesData, error)
	UpdateZone(number int, spec ipc.ZoneSpec) error
	Snap(window uint32, zone int) (bool, error)
	ShowZones() error
	HideZones() error
	SaveLayout() error
	ResetZones() error
}

// Server is the MCP server exposing zone placement tools over stdio.
// Every tool is routed through the daemon's IPC socket, so the daemon
// must be running for the tools to succeed.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    zoneService
}

// NewServer creates an MCP server backed by the snapzone daemon socket.
func NewServer() *Server {
	return newServer(ipc.NewClient())
}

func newServer(daemon zoneService) *Server {
	s := &Server{daemon: daemon}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_zones",
		Description: "List the configured snap zones with their 1-based numbers, monitor assignments, percentage geometry, and resolved pixel rectangles. Zones whose monitor is disconnected are marked orphaned and have no pixel rectangle.",
	}, s.handleListZones)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_monitors",
		Description: "List the connected monitors with their 1-based index, full geometry, and work area (the monitor minus panels and docks). Zones are laid out inside work areas.",
	}, s.handleGetMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "snap_window",
		Description: "Snap a window into a zone by zone number. Targets the focused window by default; pass an X11 window ID to snap a specific window. Returns moved=false when the daemon refuses (no focused window, or the zone's monitor is disconnected).",
	}, s.handleSnapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "show_zones",
		Description: "Show the zone overlay on all monitors. Each zone is drawn as a numbered translucent region.",
	}, s.handleShowZones)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "hide_zones",
		Description: "Hide the zone overlay.",
	}, s.handleHideZones)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "update_zone",
		Description: "Replace one zone's definition by zone number. Geometry is in percent (0-100) of the target monitor's work area. The change is live immediately but not persisted until save_layout.",
	}, s.handleUpdateZone)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_layout",
		Description: "Persist the current zone list to the settings file so it survives daemon restarts.",
	}, s.handleSaveLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_zones",
		Description: "Discard the current zone list and restore the defaults for the connected monitors (six zones on the primary monitor, three on each additional one). The reset is live immediately but not persisted until save_layout.",
	}, s.handleResetZones)
}
