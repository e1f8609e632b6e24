package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/snapzone/snapzone/internal/ipc"
)

type updateCall struct {
	number int
	spec   ipc.ZoneSpec
}

type snapCall struct {
	window uint32
	zone   int
}

type fakeService struct {
	monitors *ipc.MonitorsData
	zones    *ipc.ZonesData
	err      error
	moved    bool

	updates []updateCall
	snaps   []snapCall
	shown   int
	hidden  int
	saves   int
	resets  int
}

func (f *fakeService) GetMonitors() (*ipc.MonitorsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.monitors, nil
}

func (f *fakeService) GetZones() (*ipc.ZonesData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.zones, nil
}

func (f *fakeService) UpdateZone(number int, spec ipc.ZoneSpec) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, updateCall{number: number, spec: spec})
	return nil
}

func (f *fakeService) Snap(window uint32, zone int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.snaps = append(f.snaps, snapCall{window: window, zone: zone})
	return f.moved, nil
}

func (f *fakeService) ShowZones() error {
	if f.err != nil {
		return f.err
	}
	f.shown++
	return nil
}

func (f *fakeService) HideZones() error {
	if f.err != nil {
		return f.err
	}
	f.hidden++
	return nil
}

func (f *fakeService) SaveLayout() error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	return nil
}

func (f *fakeService) ResetZones() error {
	if f.err != nil {
		return f.err
	}
	f.resets++
	return nil
}

func TestHandleListZones(t *testing.T) {
	f := &fakeService{
		zones: &ipc.ZonesData{
			Zones: []ipc.ZoneInfo{
				{
					Number: 1, Name: "Left Half", Monitor: 1,
					X: 0, Y: 0, Width: 50, Height: 100,
					Rect: &ipc.RectInfo{X: 0, Y: 0, Width: 960, Height: 1080},
				},
				{
					Number: 2, Monitor: 3,
					X: 0, Y: 0, Width: 100, Height: 100,
					Orphaned: true,
				},
			},
			Fingerprint: "1:1920x1080@0,0",
		},
	}
	s := newServer(f)

	_, out, err := s.handleListZones(context.Background(), nil, ListZonesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(out.Zones))
	}
	if out.Fingerprint != "1:1920x1080@0,0" {
		t.Fatalf("expected fingerprint to pass through, got %q", out.Fingerprint)
	}

	first := out.Zones[0]
	if first.Zone != 1 || first.Name != "Left Half" || first.WidthPct != 50 {
		t.Fatalf("unexpected first zone: %#v", first)
	}
	if first.Pixels == nil || first.Pixels.Width != 960 {
		t.Fatalf("expected resolved pixels for first zone, got %#v", first.Pixels)
	}

	second := out.Zones[1]
	if !second.Orphaned {
		t.Fatalf("expected second zone orphaned, got %#v", second)
	}
	if second.Pixels != nil {
		t.Fatalf("expected no pixels for orphaned zone, got %#v", second.Pixels)
	}
}

func TestHandleGetMonitors(t *testing.T) {
	f := &fakeService{
		monitors: &ipc.MonitorsData{
			Monitors: []ipc.MonitorInfo{
				{
					Index: 1, Name: "DP-1", Primary: true,
					X: 0, Y: 0, Width: 1920, Height: 1080,
					WorkX: 0, WorkY: 30, WorkWidth: 1920, WorkHeight: 1050,
				},
			},
		},
	}
	s := newServer(f)

	_, out, err := s.handleGetMonitors(context.Background(), nil, GetMonitorsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Monitors) != 1 {
		t.Fatalf("expected 1 monitor, got %d", len(out.Monitors))
	}

	m := out.Monitors[0]
	if m.Monitor != 1 || !m.Primary || m.Name != "DP-1" {
		t.Fatalf("unexpected monitor: %#v", m)
	}
	if m.WorkArea.Y != 30 || m.WorkArea.Height != 1050 {
		t.Fatalf("expected work area to survive, got %#v", m.WorkArea)
	}
}

func TestHandleSnapWindow(t *testing.T) {
	f := &fakeService{moved: true}
	s := newServer(f)

	_, out, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Moved || out.Zone != 3 {
		t.Fatalf("unexpected output: %#v", out)
	}
	if len(f.snaps) != 1 || f.snaps[0].zone != 3 || f.snaps[0].window != 0 {
		t.Fatalf("unexpected snap calls: %#v", f.snaps)
	}

	_, _, err = s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: 2, Window: 0x42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.snaps) != 2 || f.snaps[1].window != 0x42 {
		t.Fatalf("expected explicit window to pass through, got %#v", f.snaps)
	}
}

func TestHandleSnapWindow_RefusalIsNotAnError(t *testing.T) {
	f := &fakeService{moved: false}
	s := newServer(f)

	_, out, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Moved {
		t.Fatal("expected moved=false for a refusal")
	}
}

func TestHandleSnapWindow_RejectsZoneZero(t *testing.T) {
	s := newServer(&fakeService{})

	if _, _, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: 0}); err == nil {
		t.Fatal("expected error for zone 0")
	}
}

func TestHandleUpdateZone(t *testing.T) {
	f := &fakeService{}
	s := newServer(f)

	_, out, err := s.handleUpdateZone(context.Background(), nil, UpdateZoneInput{
		Zone:      2,
		Monitor:   1,
		XPct:      50,
		YPct:      0,
		WidthPct:  50,
		HeightPct: 100,
		Name:      "Right Half",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Updated || out.Zone != 2 {
		t.Fatalf("unexpected output: %#v", out)
	}
	if len(f.updates) != 1 {
		t.Fatalf("expected 1 update call, got %d", len(f.updates))
	}
	if f.updates[0].number != 2 {
		t.Fatalf("expected zone number 2, got %d", f.updates[0].number)
	}
	spec := f.updates[0].spec
	if spec.Monitor != 1 || spec.X != 50 || spec.Width != 50 || spec.Name != "Right Half" {
		t.Fatalf("unexpected spec: %#v", spec)
	}
}

func TestHandleUpdateZone_RejectsZoneZero(t *testing.T) {
	s := newServer(&fakeService{})

	if _, _, err := s.handleUpdateZone(context.Background(), nil, UpdateZoneInput{Zone: 0}); err == nil {
		t.Fatal("expected error for zone 0")
	}
}

func TestHandleOverlayTools(t *testing.T) {
	f := &fakeService{}
	s := newServer(f)

	_, out, err := s.handleShowZones(context.Background(), nil, ShowZonesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Visible || f.shown != 1 {
		t.Fatalf("expected overlay shown, got %#v shown=%d", out, f.shown)
	}

	_, out, err = s.handleHideZones(context.Background(), nil, HideZonesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Visible || f.hidden != 1 {
		t.Fatalf("expected overlay hidden, got %#v hidden=%d", out, f.hidden)
	}
}

func TestHandleSaveLayout(t *testing.T) {
	f := &fakeService{}
	s := newServer(f)

	_, out, err := s.handleSaveLayout(context.Background(), nil, SaveLayoutInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Saved || f.saves != 1 {
		t.Fatalf("expected save, got %#v saves=%d", out, f.saves)
	}
}

func TestHandleResetZones_CountsNewZones(t *testing.T) {
	f := &fakeService{
		zones: &ipc.ZonesData{
			Zones: []ipc.ZoneInfo{{Number: 1}, {Number: 2}, {Number: 3}},
		},
	}
	s := newServer(f)

	_, out, err := s.handleResetZones(context.Background(), nil, ResetZonesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Reset || f.resets != 1 {
		t.Fatalf("expected reset, got %#v resets=%d", out, f.resets)
	}
	if out.Zones != 3 {
		t.Fatalf("expected 3 zones after reset, got %d", out.Zones)
	}
}

func TestHandlers_PropagateDaemonErrors(t *testing.T) {
	daemonDown := errors.New("failed to connect to daemon")
	s := newServer(&fakeService{err: daemonDown})

	if _, _, err := s.handleListZones(context.Background(), nil, ListZonesInput{}); !errors.Is(err, daemonDown) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if _, _, err := s.handleGetMonitors(context.Background(), nil, GetMonitorsInput{}); !errors.Is(err, daemonDown) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if _, _, err := s.handleSnapWindow(context.Background(), nil, SnapWindowInput{Zone: 1}); !errors.Is(err, daemonDown) {
		t.Fatalf("expected daemon error, got %v", err)
	}
	if _, _, err := s.handleSaveLayout(context.Background(), nil, SaveLayoutInput{}); !errors.Is(err, daemonDown) {
		t.Fatalf("expected daemon error, got %v", err)
	}
}
