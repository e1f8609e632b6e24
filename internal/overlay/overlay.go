// Package overlay renders zone rectangles on screen using
// override-redirect X windows, so the window manager never decorates,
// focuses, or repositions them.
package overlay

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/snapzone/snapzone/internal/platform"
)

// Border colors
const (
	ColorZone      = 0x3498db // blue - visible zone
	ColorHighlight = 0x27ae60 // green - zone under the pointer
	ColorBadgeText = 0xf5f7fa // light text for the number badge
	ColorBadgeBg   = 0x1f2933 // dark badge background
)

// BorderThickness is the zone border width in pixels.
const BorderThickness = 4

const (
	badgeMargin     = 8
	badgePaddingX   = 10
	badgePaddingY   = 6
	badgeLineHeight = 16
	badgeCharWidth  = 7
)

// Region is one renderable zone: its pixel rectangle, the 1-based number
// shown to the user, and an optional name for the badge.
type Region struct {
	Rect   platform.Rect
	Number int
	Name   string
}

// zoneOverlay is a rectangular border made of 4 thin windows plus a
// small text badge in the corner.
type zoneOverlay struct {
	Top     xproto.Window
	Bottom  xproto.Window
	Left    xproto.Window
	Right   xproto.Window
	Badge   xproto.Window
	created bool
	mapped  bool
}

// Manager owns every overlay window the daemon creates. Methods are safe
// for concurrent use; the gesture engine and the IPC server both drive it.
type Manager struct {
	mu   sync.Mutex
	xu   *xgbutil.XUtil
	root xproto.Window

	zones []*zoneOverlay
	own   map[xproto.Window]struct{}

	gc           xproto.Gcontext
	font         xproto.Font
	textReady    bool
	textDisabled bool

	shown     []Region
	highlight int
}

// New creates an overlay manager drawing on the given root window.
func New(xu *xgbutil.XUtil, root xproto.Window) *Manager {
	return &Manager{
		xu:        xu,
		root:      root,
		own:       make(map[xproto.Window]struct{}),
		highlight: -1,
	}
}

// Show renders one bordered rectangle per region, numbers included, with
// no highlight. Calling Show again replaces the current set.
func (m *Manager) Show(regions []Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureZones(len(regions)); err != nil {
		return err
	}
	for i, region := range regions {
		if err := m.showZone(m.zones[i], region, ColorZone); err != nil {
			return err
		}
	}
	m.shown = regions
	m.highlight = -1
	return nil
}

// Highlight recolors the zone at index (into the shown region list) and
// clears the previous highlight. -1 clears all highlights.
func (m *Manager) Highlight(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.shown) == 0 || index == m.highlight {
		return
	}
	if m.highlight >= 0 && m.highlight < len(m.shown) {
		m.recolorZone(m.zones[m.highlight], ColorZone)
	}
	if index >= 0 && index < len(m.shown) {
		m.recolorZone(m.zones[index], ColorHighlight)
		m.highlight = index
		return
	}
	m.highlight = -1
}

// Hide unmaps every overlay without destroying it.
func (m *Manager) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, z := range m.zones {
		m.hideZone(z)
	}
	m.shown = nil
	m.highlight = -1
}

// Visible reports whether any zones are currently rendered.
func (m *Manager) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shown) > 0
}

// IsOverlayWindow reports whether id belongs to this manager. The gesture
// engine and the placement executor use it to screen out our own windows.
func (m *Manager) IsOverlayWindow(id platform.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.own[xproto.Window(id)]
	return ok
}

// Cleanup destroys every overlay window and frees the text resources.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, z := range m.zones {
		m.destroyZone(z)
	}
	m.zones = nil
	m.shown = nil
	m.highlight = -1

	conn := m.xu.Conn()
	if m.gc != 0 {
		xproto.FreeGC(conn, m.gc)
		m.gc = 0
	}
	if m.font != 0 {
		xproto.CloseFont(conn, m.font)
		m.font = 0
	}
	m.textReady = false
}

// ensureZones grows the overlay pool to count and hides any extras left
// over from a previous, larger layout.
func (m *Manager) ensureZones(count int) error {
	if count <= len(m.zones) {
		for i := count; i < len(m.zones); i++ {
			m.hideZone(m.zones[i])
		}
		return nil
	}
	for len(m.zones) < count {
		z := &zoneOverlay{}
		if err := m.createZoneWindows(z); err != nil {
			return err
		}
		m.zones = append(m.zones, z)
	}
	return nil
}

func (m *Manager) showZone(z *zoneOverlay, region Region, color uint32) error {
	if !z.created {
		if err := m.createZoneWindows(z); err != nil {
			return err
		}
	}

	conn := m.xu.Conn()
	segs := borderSegments(region.Rect, BorderThickness)
	m.updateWindow(z.Top, segs[0], color)
	m.updateWindow(z.Bottom, segs[1], color)
	m.updateWindow(z.Left, segs[2], color)
	m.updateWindow(z.Right, segs[3], color)

	xproto.MapWindow(conn, z.Top)
	xproto.MapWindow(conn, z.Bottom)
	xproto.MapWindow(conn, z.Left)
	xproto.MapWindow(conn, z.Right)
	z.mapped = true

	m.renderBadge(z, region)
	return nil
}

// recolorZone changes border colors in place without remapping.
func (m *Manager) recolorZone(z *zoneOverlay, color uint32) {
	if !z.mapped {
		return
	}
	conn := m.xu.Conn()
	for _, wid := range []xproto.Window{z.Top, z.Bottom, z.Left, z.Right} {
		xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
		xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
	}
}

func (m *Manager) hideZone(z *zoneOverlay) {
	if !z.mapped {
		return
	}
	conn := m.xu.Conn()
	xproto.UnmapWindow(conn, z.Top)
	xproto.UnmapWindow(conn, z.Bottom)
	xproto.UnmapWindow(conn, z.Left)
	xproto.UnmapWindow(conn, z.Right)
	xproto.UnmapWindow(conn, z.Badge)
	z.mapped = false
}

func (m *Manager) destroyZone(z *zoneOverlay) {
	conn := m.xu.Conn()
	for _, wid := range []xproto.Window{z.Top, z.Bottom, z.Left, z.Right, z.Badge} {
		if wid != 0 {
			xproto.DestroyWindow(conn, wid)
			delete(m.own, wid)
		}
	}
	z.Top, z.Bottom, z.Left, z.Right, z.Badge = 0, 0, 0, 0, 0
	z.created = false
	z.mapped = false
}

func (m *Manager) createZoneWindows(z *zoneOverlay) error {
	windows := []*xproto.Window{&z.Top, &z.Bottom, &z.Left, &z.Right, &z.Badge}
	for _, wid := range windows {
		created, err := m.createOverrideRedirectWindow()
		if err != nil {
			return err
		}
		*wid = created
		m.own[created] = struct{}{}
	}
	z.created = true
	return nil
}

// createOverrideRedirectWindow creates a window the window manager will
// not touch.
func (m *Manager) createOverrideRedirectWindow() (xproto.Window, error) {
	conn := m.xu.Conn()
	screen := m.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		m.root,
		0, 0, // x, y (updated on show)
		1, 1, // width, height (updated on show)
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Value list order follows the bit positions of the mask (low to
		// high). CwBackPixel comes before CwOverrideRedirect, so it must
		// be first.
		[]uint32{0, 1}, // back_pixel=black, override_redirect=true
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

// updateWindow moves, resizes, recolors, and raises a window.
func (m *Manager) updateWindow(wid xproto.Window, seg segment, color uint32) {
	conn := m.xu.Conn()

	w, h := seg.w, seg.h
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(seg.x),
			uint32(seg.y),
			uint32(w),
			uint32(h),
			xproto.StackModeAbove,
		},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}

// renderBadge draws the zone's number (and name, when set) in a small
// panel inside the zone's top-left corner. Badges are best-effort: if the
// server has no usable core font the borders still render.
func (m *Manager) renderBadge(z *zoneOverlay, region Region) {
	if !m.ensureTextResources(z.Badge) {
		return
	}

	conn := m.xu.Conn()
	text := badgeText(region.Number, region.Name)
	bx, by, bw, bh := badgeGeometry(text, region.Rect)
	if bw < 1 || bh < 1 {
		xproto.UnmapWindow(conn, z.Badge)
		return
	}

	xproto.ConfigureWindow(
		conn,
		z.Badge,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(bx), uint32(by), uint32(bw), uint32(bh), xproto.StackModeAbove},
	)
	xproto.ChangeWindowAttributes(conn, z.Badge, xproto.CwBackPixel, []uint32{ColorBadgeBg})
	xproto.MapWindow(conn, z.Badge)
	xproto.ClearArea(conn, false, z.Badge, 0, 0, 0, 0)

	baseline := badgePaddingY + badgeLineHeight - 4
	xproto.ImageText8(
		conn,
		byte(len(text)),
		xproto.Drawable(z.Badge),
		m.gc,
		int16(badgePaddingX),
		int16(baseline),
		text,
	)
}

// ensureTextResources opens a core font and a GC shared by all badges.
func (m *Manager) ensureTextResources(drawable xproto.Window) bool {
	if m.textDisabled {
		return false
	}
	if m.textReady {
		return true
	}

	conn := m.xu.Conn()

	font, err := xproto.NewFontId(conn)
	if err != nil {
		m.textDisabled = true
		return false
	}
	fontNames := []string{"fixed", "9x15", "8x13", "6x13"}
	opened := false
	for _, fontName := range fontNames {
		if err := xproto.OpenFontChecked(conn, font, uint16(len(fontName)), fontName).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		m.textDisabled = true
		return false
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		m.textDisabled = true
		return false
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(drawable),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			ColorBadgeText, // foreground
			ColorBadgeBg,   // background
			uint32(font),   // font
			0,              // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		m.textDisabled = true
		return false
	}

	m.font = font
	m.gc = gc
	m.textReady = true
	return true
}

type segment struct {
	x, y, w, h int
}

// borderSegments splits a rectangle's outline into the four thin bars the
// border windows cover: top, bottom, left, right. The side bars sit
// between the top and bottom bars so corners are not double-drawn.
func borderSegments(r platform.Rect, t int) [4]segment {
	return [4]segment{
		{r.X, r.Y, r.Width, t},
		{r.X, r.Y + r.Height - t, r.Width, t},
		{r.X, r.Y + t, t, r.Height - 2*t},
		{r.X + r.Width - t, r.Y + t, t, r.Height - 2*t},
	}
}

// badgeText formats the badge label. ImageText8 caps at 255 bytes.
func badgeText(number int, name string) string {
	text := fmt.Sprintf("%d", number)
	if name != "" {
		text = fmt.Sprintf("%d  %s", number, name)
	}
	if len(text) > 255 {
		text = text[:255]
	}
	return text
}

// badgeGeometry sizes the badge for its text and pins it inside the
// zone's top-left corner, shrinking when the zone is too small.
func badgeGeometry(text string, zone platform.Rect) (x, y, w, h int) {
	w = len(text)*badgeCharWidth + 2*badgePaddingX
	h = badgeLineHeight + 2*badgePaddingY

	maxW := zone.Width - 2*(BorderThickness+badgeMargin)
	maxH := zone.Height - 2*(BorderThickness+badgeMargin)
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}

	x = zone.X + BorderThickness + badgeMargin
	y = zone.Y + BorderThickness + badgeMargin
	return x, y, w, h
}
