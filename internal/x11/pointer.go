package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// QueryPointer returns the pointer's current root coordinates and the raw
// modifier/button mask.
func (c *Connection) QueryPointer() (x, y int, mask uint16, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), reply.Mask, nil
}

// WindowAtPoint returns the topmost managed client window whose frame
// contains the point. It walks _NET_CLIENT_LIST_STACKING from the top of
// the stack down, skipping docks, desktops and unmapped windows.
func (c *Connection) WindowAtPoint(x, y int) (xproto.Window, bool) {
	stacking, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		return 0, false
	}

	// Bottom-to-top order; scan from the end for the topmost hit.
	for i := len(stacking) - 1; i >= 0; i-- {
		windowID := stacking[i]
		if !c.IsNormalWindow(windowID) {
			continue
		}
		viewable, err := c.IsViewable(windowID)
		if err != nil || !viewable {
			continue
		}
		wx, wy, ww, wh, err := c.GetWindowRect(windowID)
		if err != nil {
			continue
		}
		if x >= wx && x < wx+ww && y >= wy && y < wy+wh {
			return windowID, true
		}
	}
	return 0, false
}
