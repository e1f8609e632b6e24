package notify

import (
	"testing"
)

func TestNotify_DisabledSenderIsSilent(t *testing.T) {
	s := &Sender{} // no notify-send found
	s.Notify("hello", "world")
	// No run hook installed; a call through it would panic.
}

func TestNotify_PassesSummaryAndBody(t *testing.T) {
	var gotPath string
	var gotArgs []string
	s := &Sender{
		path:    "/usr/bin/notify-send",
		enabled: true,
		run: func(path string, args ...string) {
			gotPath = path
			gotArgs = args
		},
	}

	s.Notify("Snapped", "Window placed in Left Half.")

	if gotPath != "/usr/bin/notify-send" {
		t.Fatalf("expected notify-send path, got %q", gotPath)
	}
	if len(gotArgs) < 2 {
		t.Fatalf("expected args, got %v", gotArgs)
	}
	if gotArgs[len(gotArgs)-2] != "Snapped" || gotArgs[len(gotArgs)-1] != "Window placed in Left Half." {
		t.Fatalf("expected summary and body last, got %v", gotArgs)
	}
}
