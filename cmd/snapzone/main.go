package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/snapzone/snapzone/internal/config"
	"github.com/snapzone/snapzone/internal/daemon"
	"github.com/snapzone/snapzone/internal/gesture"
	"github.com/snapzone/snapzone/internal/hotkeys"
	"github.com/snapzone/snapzone/internal/ipc"
	"github.com/snapzone/snapzone/internal/manager"
	"github.com/snapzone/snapzone/internal/notify"
	"github.com/snapzone/snapzone/internal/overlay"
	"github.com/snapzone/snapzone/internal/placement"
	"github.com/snapzone/snapzone/internal/platform"
	"github.com/snapzone/snapzone/internal/x11"
	"github.com/snapzone/snapzone/internal/zones"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: snapzone daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: snapzone daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "zones":
		os.Exit(runZones(os.Args[2:]))
	case "snap":
		os.Exit(runSnap(os.Args[2:]))
	case "show":
		os.Exit(runOverlay("show", os.Args[2:]))
	case "hide":
		os.Exit(runOverlay("hide", os.Args[2:]))
	case "toggle":
		os.Exit(runOverlay("toggle", os.Args[2:]))
	case "save":
		os.Exit(runSave(os.Args[2:]))
	case "reset":
		os.Exit(runReset(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "edit":
		os.Exit(runEdit(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: snapzone <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the snapzone daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  monitors            List monitors and work areas")
	fmt.Fprintln(w, "  zones               List zones and their resolved geometry")
	fmt.Fprintln(w, "  snap <zone>         Snap the active window into a zone")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  show                Show the zone overlay")
	fmt.Fprintln(w, "  hide                Hide the zone overlay")
	fmt.Fprintln(w, "  toggle              Toggle the zone overlay")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  save                Persist the daemon's current zones to disk")
	fmt.Fprintln(w, "  reset               Regenerate default zones for the current monitors")
	fmt.Fprintln(w, "  reload              Re-read the zone settings file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  edit                Open the interactive zone editor")
	fmt.Fprintln(w, "  palette             Pick a zone from a launcher menu and snap")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'snapzone <command> --help' for command-specific options.")
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("monitors:       %d\n", status.Monitors)
	fmt.Printf("zones:          %d\n", status.Zones)
	fmt.Printf("orphaned_zones: %d\n", status.OrphanedZones)
	fmt.Printf("fingerprint:    %s\n", status.Fingerprint)
	fmt.Printf("overlay_shown:  %v\n", status.OverlayShown)
	fmt.Printf("settings_path:  %s\n", status.SettingsPath)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List monitors with bounds and work areas.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	for _, m := range data.Monitors {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("monitor-%d", m.Index)
		}
		primary := ""
		if m.Primary {
			primary = " (primary)"
		}
		fmt.Printf("%d: %s%s  %dx%d+%d+%d  work %dx%d+%d+%d\n",
			m.Index, name, primary,
			m.Width, m.Height, m.X, m.Y,
			m.WorkWidth, m.WorkHeight, m.WorkX, m.WorkY)
	}
	return 0
}

func runZones(args []string) int {
	fs := flag.NewFlagSet("zones", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone zones [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List zones with their current pixel resolution. The zone number is")
		fmt.Fprintln(os.Stderr, "the list position; it is also the snap hotkey digit.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "zones takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetZones()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(out))
		return 0
	}

	fmt.Printf("fingerprint: %s\n", data.Fingerprint)
	for _, z := range data.Zones {
		name := z.Name
		if name == "" {
			name = fmt.Sprintf("Zone %d", z.Number)
		}
		where := "(orphaned)"
		if z.Rect != nil {
			where = fmt.Sprintf("%dx%d+%d+%d", z.Rect.Width, z.Rect.Height, z.Rect.X, z.Rect.Y)
		}
		fmt.Printf("%d: %-20s monitor %d  %.0f,%.0f %.0fx%.0f%%  %s\n",
			z.Number, name, z.Monitor, z.X, z.Y, z.Width, z.Height, where)
	}
	return 0
}

func runSnap(args []string) int {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone snap [--window ID] <zone>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Snap a window into the zone at the given list position (1-9...).")
		fmt.Fprintln(os.Stderr, "Without --window the currently active window is used.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	windowFlag := fs.String("window", "", "Target window ID (decimal or 0x hex)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "snap requires exactly one <zone> argument")
		fs.Usage()
		return 2
	}

	zone, err := strconv.Atoi(fs.Arg(0))
	if err != nil || zone < 1 {
		fmt.Fprintf(os.Stderr, "invalid zone number %q\n", fs.Arg(0))
		return 2
	}

	var window uint32
	if *windowFlag != "" {
		id, err := strconv.ParseUint(*windowFlag, 0, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid window ID %q\n", *windowFlag)
			return 2
		}
		window = uint32(id)
	}

	client := ipc.NewClient()
	moved, err := client.Snap(window, zone)
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

func runOverlay(action string, args []string) int {
	fs := flag.NewFlagSet(action, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: snapzone %s\n", action)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Control the on-screen zone overlay.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", action)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	switch action {
	case "show":
		if err := client.ShowZones(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "hide":
		if err := client.HideZones(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "toggle":
		visible, err := client.ToggleZones()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if visible {
			fmt.Println("overlay: shown")
		} else {
			fmt.Println("overlay: hidden")
		}
	}
	return 0
}

func runSave(args []string) int {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone save")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Persist the daemon's current zone layout to the settings file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "save takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.SaveLayout(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runReset(args []string) int {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone reset [--save]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Replace the zone list with generated defaults for the current")
		fmt.Fprintln(os.Stderr, "monitors. In-memory only unless --save is given.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	save := fs.Bool("save", false, "Persist the regenerated zones immediately")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reset takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.ResetZones(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *save {
		if err := client.SaveLayout(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: snapzone reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-read the zone settings file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  snapzone config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  snapzone config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/snapzone/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/snapzone/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (modifier: %s, snap prefix: %s)", cfg.GestureModifier, cfg.SnapHotkeyPrefix)

	// Session managers sometimes start daemons before the display variables
	// reach the environment; the config can pin them.
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	settingsPath := cfg.ZonesPath
	if settingsPath == "" {
		settingsPath, err = zones.DefaultSettingsPath()
		if err != nil {
			log.Fatalf("Failed to resolve settings path: %v", err)
		}
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	store := zones.NewStore(settingsPath, slogger)

	ov := overlay.New(backend.XUtil(), backend.RootWindow())
	defer ov.Cleanup()

	placer := placement.New(backend, ov.IsOverlayWindow, placement.Options{
		Tolerance:    cfg.PlacementTolerancePx,
		DisableRetry: !cfg.PlacementRetry,
	})

	var notifier manager.Notifier
	if cfg.Notifications {
		notifier = notify.NewSender()
	}

	mgr := manager.New(backend, store, ov, placer, notifier)
	if err := mgr.Start(); err != nil {
		log.Fatalf("Failed to start zone manager: %v", err)
	}

	// Drag snapping degrades independently: a failed pointer grab leaves
	// hotkeys and IPC running.
	if modMask, err := x11.ModifierMask(cfg.GestureModifier); err != nil {
		log.Printf("Gesture: %v; drag snapping disabled", err)
	} else {
		engine := gesture.New(backend, mgr.GestureCallbacks(), gesture.Options{
			Cooldown: cfg.GestureCooldown(),
			Denylist: cfg.GestureDenylist,
		})
		button := x11.DragButton(cfg.GestureModifier)
		if err := backend.Connection().GrabDrag(button, modMask, engine); err != nil {
			log.Printf("Gesture: %v; drag snapping disabled", err)
		} else {
			log.Printf("Gesture: drag snapping armed on %s", button)
		}
	}

	hotkeyHandler := hotkeys.NewHandler(backend, mgr)
	if err := hotkeyHandler.RegisterSnapKeys(cfg.SnapHotkeyPrefix); err != nil {
		log.Printf("Warning: %v", err)
	}
	if cfg.ToggleHotkey != "" {
		if err := hotkeyHandler.RegisterToggle(cfg.ToggleHotkey); err != nil {
			log.Printf("Warning: Failed to register toggle hotkey %s: %v", cfg.ToggleHotkey, err)
		} else {
			log.Printf("Hotkeys: overlay toggle on %s", cfg.ToggleHotkey)
		}
	}

	reloadChan := make(chan struct{}, 1)
	ipcServer, err := ipc.NewServer(mgr, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	watcher := daemon.NewWatcher(daemon.WatcherConfig{
		Interval: cfg.TopologyPollInterval(),
		Logger:   slogger,
	}, mgr)
	watcherCtx, watcherCancel := context.WithCancel(context.Background())
	defer watcherCancel()
	go watcher.Run(watcherCtx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading zone settings...")
					if err := mgr.ReloadSettings(); err != nil {
						log.Printf("Zone reload failed: %v", err)
						continue
					}
					log.Println("Zone settings reloaded; restart to apply hotkey or gesture changes")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down snapzone daemon...")
					watcherCancel()
					ipcServer.Stop()
					ov.Cleanup()
					os.Exit(0)
				}

			case <-reloadChan:
				// Zones were already reloaded by the IPC handler. Input
				// bindings are grabbed once at startup, so only note it.
				log.Println("Settings reloaded via IPC; restart to apply hotkey or gesture changes")
			}
		}
	}()

	log.Println("snapzone daemon started")
	backend.EventLoop()
}
