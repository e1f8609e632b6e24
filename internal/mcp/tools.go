package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/snapzone/snapzone/internal/ipc"
)

func (s *Server) handleListZones(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListZonesInput) (*mcpsdk.CallToolResult, ListZonesOutput, error) {
	data, err := s.daemon.GetZones()
	if err != nil {
		return nil, ListZonesOutput{}, err
	}

	out := ListZonesOutput{
		Zones:       make([]ZoneSummary, 0, len(data.Zones)),
		Fingerprint: data.Fingerprint,
	}
	for _, z := range data.Zones {
		summary := ZoneSummary{
			Zone:      z.Number,
			Name:      z.Name,
			Monitor:   z.Monitor,
			XPct:      z.X,
			YPct:      z.Y,
			WidthPct:  z.Width,
			HeightPct: z.Height,
			Orphaned:  z.Orphaned,
		}
		if z.Rect != nil {
			summary.Pixels = &PixelRect{
				X:      z.Rect.X,
				Y:      z.Rect.Y,
				Width:  z.Rect.Width,
				Height: z.Rect.Height,
			}
		}
		out.Zones = append(out.Zones, summary)
	}
	return nil, out, nil
}

func (s *Server) handleGetMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetMonitorsInput) (*mcpsdk.CallToolResult, GetMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, GetMonitorsOutput{}, err
	}

	out := GetMonitorsOutput{Monitors: make([]MonitorSummary, 0, len(data.Monitors))}
	for _, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorSummary{
			Monitor: m.Index,
			Name:    m.Name,
			Primary: m.Primary,
			Bounds: PixelRect{
				X:      m.X,
				Y:      m.Y,
				Width:  m.Width,
				Height: m.Height,
			},
			WorkArea: PixelRect{
				X:      m.WorkX,
				Y:      m.WorkY,
				Width:  m.WorkWidth,
				Height: m.WorkHeight,
			},
		})
	}
	return nil, out, nil
}

func (s *Server) handleSnapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapWindowInput) (*mcpsdk.CallToolResult, SnapWindowOutput, error) {
	if args.Zone < 1 {
		return nil, SnapWindowOutput{}, fmt.Errorf("zone must be >= 1, got %d", args.Zone)
	}

	moved, err := s.daemon.Snap(args.Window, args.Zone)
	if err != nil {
		return nil, SnapWindowOutput{}, err
	}
	return nil, SnapWindowOutput{Moved: moved, Zone: args.Zone}, nil
}

func (s *Server) handleShowZones(_ context.Context, _ *mcpsdk.CallToolRequest, _ ShowZonesInput) (*mcpsdk.CallToolResult, OverlayOutput, error) {
	if err := s.daemon.ShowZones(); err != nil {
		return nil, OverlayOutput{}, err
	}
	return nil, OverlayOutput{Visible: true}, nil
}

func (s *Server) handleHideZones(_ context.Context, _ *mcpsdk.CallToolRequest, _ HideZonesInput) (*mcpsdk.CallToolResult, OverlayOutput, error) {
	if err := s.daemon.HideZones(); err != nil {
		return nil, OverlayOutput{}, err
	}
	return nil, OverlayOutput{Visible: false}, nil
}

func (s *Server) handleUpdateZone(_ context.Context, _ *mcpsdk.CallToolRequest, args UpdateZoneInput) (*mcpsdk.CallToolResult, UpdateZoneOutput, error) {
	if args.Zone < 1 {
		return nil, UpdateZoneOutput{}, fmt.Errorf("zone must be >= 1, got %d", args.Zone)
	}

	spec := ipc.ZoneSpec{
		Monitor: args.Monitor,
		X:       args.XPct,
		Y:       args.YPct,
		Width:   args.WidthPct,
		Height:  args.HeightPct,
		Name:    args.Name,
	}
	if err := s.daemon.UpdateZone(args.Zone, spec); err != nil {
		return nil, UpdateZoneOutput{}, err
	}
	return nil, UpdateZoneOutput{Zone: args.Zone, Updated: true}, nil
}

func (s *Server) handleSaveLayout(_ context.Context, _ *mcpsdk.CallToolRequest, _ SaveLayoutInput) (*mcpsdk.CallToolResult, SaveLayoutOutput, error) {
	if err := s.daemon.SaveLayout(); err != nil {
		return nil, SaveLayoutOutput{}, err
	}
	return nil, SaveLayoutOutput{Saved: true}, nil
}

func (s *Server) handleResetZones(_ context.Context, _ *mcpsdk.CallToolRequest, _ ResetZonesInput) (*mcpsdk.CallToolResult, ResetZonesOutput, error) {
	if err := s.daemon.ResetZones(); err != nil {
		return nil, ResetZonesOutput{}, err
	}

	out := ResetZonesOutput{Reset: true}
	// The zone count is best-effort; the reset itself already succeeded.
	if data, err := s.daemon.GetZones(); err == nil {
		out.Zones = len(data.Zones)
	}
	return nil, out, nil
}
