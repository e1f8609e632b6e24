package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/snapzone/snapzone/internal/tui"
)

func runEdit(args []string) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: snapzone edit")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive editor for zone layouts and daemon settings.")
		fmt.Fprintln(os.Stderr, "Edits go through the daemon when it is running; otherwise they")
		fmt.Fprintln(os.Stderr, "are written straight to the files on disk.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  tab/shift-tab  Switch tabs")
		fmt.Fprintln(os.Stderr, "  1/2/3          Jump to zones / monitors / general")
		fmt.Fprintln(os.Stderr, "  a, e, x        Add, edit, delete zone")
		fmt.Fprintln(os.Stderr, "  J/K            Reorder zones (order = hotkey number)")
		fmt.Fprintln(os.Stderr, "  r              Refresh monitors from the daemon")
		fmt.Fprintln(os.Stderr, "  ctrl+s         Review and save pending changes")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C      Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "edit takes no arguments")
		return 2
	}

	if err := tui.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
