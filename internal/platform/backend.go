package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside the rectangle. The right
// and bottom edges are exclusive so adjacent rectangles never share a point.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display, its full bounds and the usable work
// area left over after panels and docks.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Usable  Rect
	Primary bool
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID
	Class  string
	Title  string
	Bounds Rect
}

// Backend abstracts the window-system operations the zone engine needs.
//
// MoveResize, Configure and Move/Resize are distinct placement strategies:
// MoveResize asks the window manager (one EWMH request), Configure bypasses
// it with a single direct request, Move and Resize split the direct request
// in two. The placement executor tries them in that order.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	ListWindows() ([]Window, error)
	WindowAt(x, y int) (WindowID, bool)
	WindowRect(id WindowID) (Rect, error)
	WindowClass(id WindowID) (string, error)
	IsValidWindow(id WindowID) bool
	IsViewable(id WindowID) (bool, error)
	IsMinimized(id WindowID) (bool, error)
	Restore(id WindowID) error
	MoveResize(id WindowID, bounds Rect) error
	Configure(id WindowID, bounds Rect) error
	Move(id WindowID, x, y int) error
	Resize(id WindowID, width, height int) error
}
