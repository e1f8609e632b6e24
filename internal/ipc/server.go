package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/snapzone/snapzone/internal/manager"
	"github.com/snapzone/snapzone/internal/platform"
	"github.com/snapzone/snapzone/internal/runtimepath"
	"github.com/snapzone/snapzone/internal/topology"
	"github.com/snapzone/snapzone/internal/zones"
)

// Manager is the slice of the zone manager the IPC server drives. It is
// satisfied by *manager.Manager.
type Manager interface {
	Status() manager.Status
	Monitors() []topology.Monitor
	Zones() []zones.Zone
	ResolvedZones() []zones.Resolved
	SetZones([]zones.Zone) error
	UpdateZone(index int, z zones.Zone) error
	ReloadSettings() error
	SaveLayout() error
	ResetDefaults()
	ShowZones() error
	HideZones()
	ToggleZones() (bool, error)
	SnapActive(n int) (bool, error)
	SnapWindow(win platform.WindowID, n int) (bool, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	mgr          Manager
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. reloadChan, when non-nil, receives a
// non-blocking signal after every RELOAD so the daemon can re-read its own
// configuration too.
func NewServer(mgr Manager, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		mgr:        mgr,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandGetZones:
		return s.handleGetZones()
	case CommandSetZones:
		return s.handleSetZones(req.Payload)
	case CommandUpdateZone:
		return s.handleUpdateZone(req.Payload)
	case CommandShowZones:
		return s.handleShowZones()
	case CommandHideZones:
		return s.handleHideZones()
	case CommandToggleZones:
		return s.handleToggleZones()
	case CommandSnap:
		return s.handleSnap(req.Payload)
	case CommandSaveLayout:
		return s.handleSaveLayout()
	case CommandResetZones:
		return s.handleResetZones()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload re-reads the zone settings file
func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	if err := s.mgr.ReloadSettings(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload zone settings: %v", err))
	}

	// Notify the daemon loop (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st := s.mgr.Status()

	status := StatusData{
		Monitors:      st.Monitors,
		Zones:         st.Zones,
		OrphanedZones: st.Orphaned,
		Fingerprint:   st.Fingerprint,
		OverlayShown:  st.OverlayShown,
		SettingsPath:  st.SettingsPath,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleGetMonitors returns the manager's current monitor snapshot
func (s *Server) handleGetMonitors() *Response {
	monitors := s.mgr.Monitors()

	monitorInfos := make([]MonitorInfo, len(monitors))
	for i, m := range monitors {
		monitorInfos[i] = MonitorInfo{
			Index:      m.Index,
			Name:       m.Name,
			X:          m.Bounds.X,
			Y:          m.Bounds.Y,
			Width:      m.Bounds.Width,
			Height:     m.Bounds.Height,
			WorkX:      m.WorkArea.X,
			WorkY:      m.WorkArea.Y,
			WorkWidth:  m.WorkArea.Width,
			WorkHeight: m.WorkArea.Height,
			Primary:    m.Primary,
		}
	}

	data := MonitorsData{
		Monitors: monitorInfos,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

// handleGetZones returns every configured zone with its resolution state
func (s *Server) handleGetZones() *Response {
	zoneList := s.mgr.Zones()
	resolved := s.mgr.ResolvedZones()

	rects := make(map[int]RectInfo, len(resolved))
	for _, r := range resolved {
		rects[r.ZoneIndex] = RectInfo{X: r.Rect.X, Y: r.Rect.Y, Width: r.Rect.Width, Height: r.Rect.Height}
	}

	infos := make([]ZoneInfo, len(zoneList))
	for i, z := range zoneList {
		info := ZoneInfo{
			Number:  i + 1,
			Name:    z.Name,
			Monitor: z.Monitor,
			X:       z.X,
			Y:       z.Y,
			Width:   z.Width,
			Height:  z.Height,
		}
		if rect, ok := rects[i]; ok {
			rect := rect
			info.Rect = &rect
		} else {
			info.Orphaned = true
		}
		infos[i] = info
	}

	data := ZonesData{
		Zones:       infos,
		Fingerprint: s.mgr.Status().Fingerprint,
	}

	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleSetZones(payload json.RawMessage) *Response {
	var p SetZonesPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set_zones payload: %v", err))
	}
	if len(p.Zones) == 0 {
		return NewErrorResponse("zones must not be empty")
	}

	list := make([]zones.Zone, len(p.Zones))
	for i, spec := range p.Zones {
		list[i] = zoneFromSpec(spec)
	}

	log.Printf("IPC: Applying %d zone(s)", len(list))
	if err := s.mgr.SetZones(list); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set zones: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleUpdateZone(payload json.RawMessage) *Response {
	var p UpdateZonePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid update_zone payload: %v", err))
	}
	if p.Zone < 1 {
		return NewErrorResponse("zone must be >= 1")
	}

	if err := s.mgr.UpdateZone(p.Zone-1, zoneFromSpec(p.Spec)); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to update zone: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleShowZones() *Response {
	if err := s.mgr.ShowZones(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to show zones: %v", err))
	}
	resp, _ := NewOKResponse(OverlayState{Visible: true})
	return resp
}

func (s *Server) handleHideZones() *Response {
	s.mgr.HideZones()
	resp, _ := NewOKResponse(OverlayState{Visible: false})
	return resp
}

func (s *Server) handleToggleZones() *Response {
	visible, err := s.mgr.ToggleZones()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to toggle zones: %v", err))
	}
	resp, _ := NewOKResponse(OverlayState{Visible: visible})
	return resp
}

// handleSnap places a window into a zone. Window 0 means the active window.
func (s *Server) handleSnap(payload json.RawMessage) *Response {
	var p SnapPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid snap payload: %v", err))
	}
	if p.Zone < 1 {
		return NewErrorResponse("zone must be >= 1")
	}

	var (
		moved bool
		err   error
	)
	if p.Window == 0 {
		moved, err = s.mgr.SnapActive(p.Zone)
	} else {
		moved, err = s.mgr.SnapWindow(platform.WindowID(p.Window), p.Zone)
	}
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to snap: %v", err))
	}

	resp, _ := NewOKResponse(SnapResult{Moved: moved})
	return resp
}

func (s *Server) handleSaveLayout() *Response {
	log.Println("IPC: Received SAVE_LAYOUT command")

	if err := s.mgr.SaveLayout(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save layout: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResetZones() *Response {
	log.Println("IPC: Received RESET_ZONES command")

	s.mgr.ResetDefaults()

	resp, _ := NewOKResponse(nil)
	return resp
}

func zoneFromSpec(spec ZoneSpec) zones.Zone {
	return zones.Zone{
		Monitor: spec.Monitor,
		X:       spec.X,
		Y:       spec.Y,
		Width:   spec.Width,
		Height:  spec.Height,
		Name:    spec.Name,
	}
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
