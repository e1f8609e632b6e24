package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/snapzone/snapzone/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.sendRequest(&Request{Command: CommandPing})
	return err
}

// Reload asks the daemon to re-read the zone settings file
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetMonitors})
	if err != nil {
		return nil, err
	}

	var monitors MonitorsData
	if err := json.Unmarshal(resp.Data, &monitors); err != nil {
		return nil, fmt.Errorf("failed to parse monitors data: %w", err)
	}

	return &monitors, nil
}

// GetZones retrieves the configured zones with their resolution state
func (c *Client) GetZones() (*ZonesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetZones})
	if err != nil {
		return nil, err
	}

	var data ZonesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse zones data: %w", err)
	}

	return &data, nil
}

// SetZones replaces the daemon's in-memory zone list. The change is not
// persisted until SaveLayout.
func (c *Client) SetZones(zones []ZoneSpec) error {
	payload, err := json.Marshal(SetZonesPayload{Zones: zones})
	if err != nil {
		return fmt.Errorf("failed to marshal set_zones payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSetZones, Payload: payload})
	return err
}

// UpdateZone replaces the zone at 1-based position number.
func (c *Client) UpdateZone(number int, spec ZoneSpec) error {
	payload, err := json.Marshal(UpdateZonePayload{Zone: number, Spec: spec})
	if err != nil {
		return fmt.Errorf("failed to marshal update_zone payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandUpdateZone, Payload: payload})
	return err
}

// Snap places a window into zone number (1-based). Window 0 targets the
// active window. The returned bool reports whether the window verifiably
// moved; false with a nil error is a refusal, not a daemon failure.
func (c *Client) Snap(window uint32, zone int) (bool, error) {
	payload, err := json.Marshal(SnapPayload{Zone: zone, Window: window})
	if err != nil {
		return false, fmt.Errorf("failed to marshal snap payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandSnap, Payload: payload})
	if err != nil {
		return false, err
	}

	var result SnapResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return false, fmt.Errorf("failed to parse snap result: %w", err)
	}

	return result.Moved, nil
}

// ShowZones makes the zone overlay visible
func (c *Client) ShowZones() error {
	_, err := c.sendRequest(&Request{Command: CommandShowZones})
	return err
}

// HideZones hides the zone overlay
func (c *Client) HideZones() error {
	_, err := c.sendRequest(&Request{Command: CommandHideZones})
	return err
}

// ToggleZones flips overlay visibility and reports the new state
func (c *Client) ToggleZones() (bool, error) {
	resp, err := c.sendRequest(&Request{Command: CommandToggleZones})
	if err != nil {
		return false, err
	}

	var state OverlayState
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		return false, fmt.Errorf("failed to parse overlay state: %w", err)
	}

	return state.Visible, nil
}

// SaveLayout persists the daemon's current zones to disk
func (c *Client) SaveLayout() error {
	_, err := c.sendRequest(&Request{Command: CommandSaveLayout})
	return err
}

// ResetZones regenerates the default zone set for the current monitors.
// Like SetZones, the result is in-memory until SaveLayout.
func (c *Client) ResetZones() error {
	_, err := c.sendRequest(&Request{Command: CommandResetZones})
	return err
}
