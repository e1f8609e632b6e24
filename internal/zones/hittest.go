package zones

// ZoneAt returns the position within resolved of the zone containing the
// point, scanning in reverse so that when zones overlap the later-listed
// one wins. Containment is half-open: a point on a shared edge belongs to
// the zone starting there, not the one ending there.
func ZoneAt(resolved []Resolved, x, y int) (int, bool) {
	for i := len(resolved) - 1; i >= 0; i-- {
		if resolved[i].Rect.Contains(x, y) {
			return i, true
		}
	}
	return -1, false
}
