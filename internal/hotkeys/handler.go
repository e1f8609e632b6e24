package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/snapzone/snapzone/internal/platform"
)

// Snapper is the manager surface driven by hotkeys.
type Snapper interface {
	SnapActive(n int) (bool, error)
	ToggleZones() (bool, error)
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	snapper Snapper
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(backend platform.Backend, snapper Snapper) *Handler {
	var xu *xgbutil.XUtil
	var root xproto.Window
	if accessor, ok := backend.(x11Accessor); ok {
		xu = accessor.XUtil()
		root = accessor.RootWindow()
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    root,
		snapper: snapper,
	}
}

// RegisterSnapKeys registers <prefix>-1 through <prefix>-9 to snap the
// active window into the zone at that list position. Individual bindings
// that fail (another client holds the grab) are logged and skipped; an
// error is returned only when none could be registered.
func (h *Handler) RegisterSnapKeys(prefix string) error {
	registered := 0
	for n := 1; n <= 9; n++ {
		n := n
		seq := fmt.Sprintf("%s-%d", prefix, n)
		err := h.RegisterFunc(seq, func() {
			// Placement sleeps; keep it off the event loop.
			go func() {
				if _, err := h.snapper.SnapActive(n); err != nil {
					log.Printf("Hotkeys: snap to zone %d failed: %v", n, err)
				}
			}()
		})
		if err != nil {
			log.Printf("Hotkeys: failed to register %s: %v", seq, err)
			continue
		}
		registered++
	}

	if registered == 0 {
		return fmt.Errorf("no snap hotkeys could be registered under prefix %q", prefix)
	}
	log.Printf("Hotkeys: registered %d snap binding(s) under %s", registered, prefix)
	return nil
}

// RegisterToggle registers the overlay toggle hotkey.
func (h *Handler) RegisterToggle(keySequence string) error {
	return h.RegisterFunc(keySequence, func() {
		if _, err := h.snapper.ToggleZones(); err != nil {
			log.Printf("Hotkeys: toggle zones failed: %v", err)
		}
	})
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
