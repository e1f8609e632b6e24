package tui

import (
	"fmt"
	"strings"

	"github.com/snapzone/snapzone/internal/zones"
)

// summarizeMonitorZones returns a one-line description of a monitor's zones
// for the preview header.
func summarizeMonitorZones(zoneList []zones.Zone, monitor int, workWidth, workHeight int) string {
	count := 0
	for _, z := range zoneList {
		if z.Monitor == monitor {
			count++
		}
	}

	noun := "zones"
	if count == 1 {
		noun = "zone"
	}
	if workWidth > 0 && workHeight > 0 {
		return fmt.Sprintf("%d %s • work area %d×%d px", count, noun, workWidth, workHeight)
	}
	return fmt.Sprintf("%d %s", count, noun)
}

// renderZonePreview draws the zones of one monitor as ASCII art. Zones are
// drawn in list order so later zones land on top, matching the stacking
// order used for hit-testing; the selected zone draws last so it stays
// visible under overlap.
func renderZonePreview(zoneList []zones.Zone, monitor, selected, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	drawBorder(canvas, width, height)

	var selectedZone *zones.Zone
	selectedNumber := 0
	for i, z := range zoneList {
		number := i + 1
		if z.Monitor != monitor {
			continue
		}
		if number == selected {
			zcopy := z
			selectedZone = &zcopy
			selectedNumber = number
			continue
		}
		drawZone(canvas, z, number, width, height)
	}
	if selectedZone != nil {
		drawZone(canvas, *selectedZone, selectedNumber, width, height)
	}

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// drawZone maps one zone's percentages onto the canvas interior and draws
// its outline and number.
func drawZone(canvas [][]rune, z zones.Zone, num, canvasW, canvasH int) {
	innerW := canvasW - 2
	innerH := canvasH - 2

	x1 := 1 + int(z.X*float64(innerW)/100)
	y1 := 1 + int(z.Y*float64(innerH)/100)
	x2 := 1 + int((z.X+z.Width)*float64(innerW)/100) - 1
	y2 := 1 + int((z.Y+z.Height)*float64(innerH)/100) - 1

	// Clamp inside the monitor border.
	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 > canvasW-2 {
		x2 = canvasW - 2
	}
	if y2 > canvasH-2 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for an outline.
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}

	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Zone number in the center.
	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		label := fmt.Sprintf("%d", num)
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

// drawBorder frames the canvas with the monitor outline.
func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}

	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
