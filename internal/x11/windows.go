package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// MoveResizeWindow moves and resizes a window in a single request routed
// through the window manager (_NET_MOVERESIZE_WINDOW). Maximized state is
// removed first or the WM will ignore the new geometry.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if err := c.unmaximizeWindow(windowID); err != nil {
		// Some windows don't support state changes; the move may still work.
	}

	return ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
}

// ConfigureWindow moves and resizes a window with one direct ConfigureWindow
// request, bypassing the window manager.
func (c *Connection) ConfigureWindow(windowID xproto.Window, x, y, width, height int) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(x), uint32(y), uint32(width), uint32(height)}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
}

// MoveWindow repositions a window without touching its size.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	values := []uint32{uint32(x), uint32(y)}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
}

// ResizeWindow resizes a window without moving it.
func (c *Connection) ResizeWindow(windowID xproto.Window, width, height int) error {
	mask := uint16(xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(width), uint32(height)}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check()
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, 0, state)
		}
	}

	return nil
}

// GetWindowRect returns a window's frame geometry in root coordinates.
func (c *Connection) GetWindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// IsValidWindow reports whether the ID still names a live window.
func (c *Connection) IsValidWindow(windowID xproto.Window) bool {
	if windowID == 0 {
		return false
	}
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// IsViewable reports whether the window is currently mapped and visible.
func (c *Connection) IsViewable(windowID xproto.Window) (bool, error) {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false, err
	}
	return attrs.MapState == xproto.MapStateViewable, nil
}

// IsMinimized reports whether the window is iconified, checking the EWMH
// hidden state first and the ICCCM WM_STATE property as fallback.
func (c *Connection) IsMinimized(windowID xproto.Window) (bool, error) {
	if states, err := ewmh.WmStateGet(c.XUtil, windowID); err == nil {
		for _, state := range states {
			if state == "_NET_WM_STATE_HIDDEN" {
				return true, nil
			}
		}
	}

	state, err := icccm.WmStateGet(c.XUtil, windowID)
	if err != nil {
		// No WM_STATE property set; treat as not minimized.
		return false, nil
	}
	return state.State == icccm.StateIconic, nil
}

// RestoreWindow deiconifies a window. Per ICCCM a client deiconifies by
// mapping the window; the activation request asks the WM to raise and focus
// it, which most WMs require before the window accepts geometry changes.
func (c *Connection) RestoreWindow(windowID xproto.Window) error {
	if err := xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check(); err != nil {
		return err
	}
	return ewmh.ActiveWindowReq(c.XUtil, windowID)
}

// GetWindowClass returns the window's WM_CLASS class name.
func (c *Connection) GetWindowClass(windowID xproto.Window) (string, error) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(wmClass.Class), nil
}

// GetWindowTitle returns the window title, preferring the EWMH name.
func (c *Connection) GetWindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}

	return ""
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
		// Reject desktop, dock, splash, etc.
		if t == "_NET_WM_WINDOW_TYPE_DESKTOP" ||
			t == "_NET_WM_WINDOW_TYPE_DOCK" ||
			t == "_NET_WM_WINDOW_TYPE_SPLASH" ||
			t == "_NET_WM_WINDOW_TYPE_NOTIFICATION" {
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
