package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
)

// DragHandler receives the pointer event stream produced by the gesture
// grab. DragBegin reports whether the press was accepted; when it returns
// false no pointer grab is taken and no step/end events follow.
type DragHandler interface {
	DragBegin(x, y int) bool
	DragStep(x, y int, modifierHeld bool)
	DragEnd(x, y int)
}

// ModifierMask translates a modifier name from configuration into the X
// modifier bit used to test pointer state.
func ModifierMask(name string) (uint16, error) {
	switch name {
	case "control", "ctrl":
		return xproto.ModMaskControl, nil
	case "shift":
		return xproto.ModMaskShift, nil
	case "mod1", "alt":
		return xproto.ModMask1, nil
	case "mod4", "super":
		return xproto.ModMask4, nil
	default:
		return 0, fmt.Errorf("unsupported gesture modifier %q (expected: control, shift, mod1, mod4)", name)
	}
}

// DragButton builds the xgbutil button string for modifier+button1.
// xgbutil only understands the canonical modifier names, so the config
// aliases are folded here.
func DragButton(name string) string {
	switch name {
	case "ctrl":
		name = "control"
	case "alt":
		name = "mod1"
	case "super":
		name = "mod4"
	}
	return name + "-1"
}

// GrabDrag installs a passive grab for modifier+button presses on the root
// window and routes the resulting press/move/release stream to handler. The
// grab holds the pointer for the duration of each drag; the modifier state
// is re-read per motion event so the handler sees releases mid-drag.
//
// buttonStr is an xgbutil button string such as "control-1". The error is
// returned before anything is installed, so a failed grab leaves other
// input paths untouched.
func (c *Connection) GrabDrag(buttonStr string, modMask uint16, handler DragHandler) error {
	if _, _, err := mousebind.ParseString(c.XUtil, buttonStr); err != nil {
		return fmt.Errorf("invalid drag binding %q: %w", buttonStr, err)
	}

	mousebind.Drag(c.XUtil, c.XUtil.Dummy(), c.Root, buttonStr, true,
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
			return handler.DragBegin(rootX, rootY), 0
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			held := true
			if _, _, mask, err := c.QueryPointer(); err == nil {
				held = mask&modMask != 0
			}
			handler.DragStep(rootX, rootY, held)
		},
		func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
			handler.DragEnd(rootX, rootY)
		})

	return nil
}
