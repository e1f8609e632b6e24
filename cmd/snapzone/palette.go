package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/snapzone/snapzone/internal/config"
	"github.com/snapzone/snapzone/internal/ipc"
	"github.com/snapzone/snapzone/internal/palette"
)

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone palette [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the zone list in a launcher menu (rofi, fuzzel, wofi or dmenu)")
		fmt.Fprintln(os.Stderr, "and snap the active window into the chosen zone. Requires the daemon.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	backendFlag := fs.String("backend", "", "Palette backend (auto, rofi, fuzzel, wofi, dmenu); default from config")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fs.Usage()
		return 0
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "palette takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	backendName := cfg.PaletteBackend
	if *backendFlag != "" {
		backendName = *backendFlag
	}
	backend, err := palette.NewBackend(backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client := ipc.NewClient()
	data, err := client.GetZones()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	entries := make([]palette.ZoneEntry, 0, len(data.Zones))
	for _, z := range data.Zones {
		entry := palette.ZoneEntry{
			Number:   z.Number,
			Name:     z.Name,
			Monitor:  z.Monitor,
			Orphaned: z.Orphaned,
		}
		if z.Rect != nil {
			entry.Geometry = fmt.Sprintf("%dx%d+%d+%d",
				z.Rect.Width, z.Rect.Height, z.Rect.X, z.Rect.Y)
		}
		entries = append(entries, entry)
	}

	picker := palette.NewPicker(backend)
	if status, err := client.GetStatus(); err == nil {
		picker.SetMessage(fmt.Sprintf("snap the active window · %d zones on %d monitor(s)",
			status.Zones, status.Monitors))
	}

	number, err := picker.Pick(entries)
	if err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	moved, err := client.Snap(0, number)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !moved {
		fmt.Fprintln(os.Stderr, "window did not move")
		return 1
	}
	return 0
}
