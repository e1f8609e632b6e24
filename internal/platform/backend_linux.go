//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/snapzone/snapzone/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Connection returns the wrapped X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	if b == nil {
		return nil
	}
	return b.conn
}

// Displays returns all active displays with their work areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{
			ID:      m.ID,
			Name:    m.Name,
			Primary: m.Primary,
			Bounds:  Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
			Usable:  Rect{X: m.WorkX, Y: m.WorkY, Width: m.WorkWidth, Height: m.WorkHeight},
		})
	}

	return displays, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// ListWindows lists the normal managed windows with class, title and frame geometry.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := ewmh.ClientListGet(conn.XUtil)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) {
			continue
		}
		viewable, err := conn.IsViewable(windowID)
		if err != nil || !viewable {
			continue
		}
		x, y, w, h, err := conn.GetWindowRect(windowID)
		if err != nil {
			continue
		}
		class, _ := conn.GetWindowClass(windowID)

		windows = append(windows, Window{
			ID:     WindowID(windowID),
			Class:  class,
			Title:  conn.GetWindowTitle(windowID),
			Bounds: Rect{X: x, Y: y, Width: w, Height: h},
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})

	return windows, nil
}

// WindowAt returns the topmost managed window under the given root point.
func (b *LinuxBackend) WindowAt(x, y int) (WindowID, bool) {
	conn, err := b.connection()
	if err != nil {
		return 0, false
	}
	win, ok := conn.WindowAtPoint(x, y)
	return WindowID(win), ok
}

// WindowRect returns the window's frame geometry in screen coordinates.
func (b *LinuxBackend) WindowRect(id WindowID) (Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, h, err := conn.GetWindowRect(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// WindowClass returns the window's WM_CLASS class name.
func (b *LinuxBackend) WindowClass(id WindowID) (string, error) {
	conn, err := b.connection()
	if err != nil {
		return "", err
	}
	return conn.GetWindowClass(xproto.Window(id))
}

// IsValidWindow reports whether the ID still names a live window.
func (b *LinuxBackend) IsValidWindow(id WindowID) bool {
	conn, err := b.connection()
	if err != nil {
		return false
	}
	return conn.IsValidWindow(xproto.Window(id))
}

// IsViewable reports whether the window is mapped and visible.
func (b *LinuxBackend) IsViewable(id WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.IsViewable(xproto.Window(id))
}

// IsMinimized reports whether the window is iconified.
func (b *LinuxBackend) IsMinimized(id WindowID) (bool, error) {
	conn, err := b.connection()
	if err != nil {
		return false, err
	}
	return conn.IsMinimized(xproto.Window(id))
}

// Restore deiconifies a window and asks the WM to activate it.
func (b *LinuxBackend) Restore(id WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.RestoreWindow(xproto.Window(id))
}

// MoveResize places a window via the window manager in one request.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveResizeWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Configure places a window with one direct ConfigureWindow request.
func (b *LinuxBackend) Configure(id WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ConfigureWindow(xproto.Window(id), bounds.X, bounds.Y, bounds.Width, bounds.Height)
}

// Move repositions a window without resizing.
func (b *LinuxBackend) Move(id WindowID, x, y int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(xproto.Window(id), x, y)
}

// Resize changes a window's size without moving it.
func (b *LinuxBackend) Resize(id WindowID, width, height int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.ResizeWindow(xproto.Window(id), width, height)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
