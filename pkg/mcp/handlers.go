package mcp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	publisherStatus := "disconnected"
	if s.publisher.IsConnected() {
		publisherStatus = "connected"
	}

	status := "healthy"
	if publisherStatus != "connected" {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Publisher: publisherStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListTimers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timers, err := s.lamps.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list timers: %s", err)), nil
	}

	now := time.Now()
	infos := make([]TimerInfo, 0, len(timers))
	for _, t := range timers {
		infos = append(infos, TimerToInfo(t, now))
	}

	out := ListTimersOutput{
		Timers: infos,
		Count:  len(infos),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := requiredInt(request, "number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t, err := s.lamps.Get(ctx, number)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get timer: %s", err)), nil
	}

	out := GetTimerOutput{Timer: TimerToInfo(t, time.Now())}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStartTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := requiredInt(request, "number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	minutes, err := requiredInt(request, "add_minutes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	t, created, err := s.lamps.StartOrExtend(ctx, number, minutes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start timer: %s", err)), nil
	}

	message := fmt.Sprintf("Timer for lamp %d extended by %d minutes", number, minutes)
	if created {
		message = fmt.Sprintf("Lamp %d switched on for %d minutes", number, minutes)
	}

	out := StartTimerOutput{
		Timer:   TimerToInfo(t, time.Now()),
		Created: created,
		Message: message,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleStopTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := requiredInt(request, "number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.lamps.Stop(ctx, number)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to stop timer: %s", err)), nil
	}

	out := StopTimerOutput{
		ID:      id.String(),
		Message: fmt.Sprintf("Timer for lamp %d stopped", number),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleResetTimers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	removed, err := s.lamps.Reset(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to reset timers (%d removed): %s", removed, err)), nil
	}

	out := ResetTimersOutput{
		Removed: removed,
		Message: fmt.Sprintf("%d timers removed, all lamps switched off", removed),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSwitchLamp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	number, err := requiredInt(request, "number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, ok := request.GetArguments()["status"].(bool)
	if !ok {
		return mcp.NewToolResultError(`parameter "status" must be a boolean`), nil
	}

	if err := s.lamps.Switch(ctx, number, status); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to switch lamp: %s", err)), nil
	}

	state := "off"
	if status {
		state = "on"
	}
	out := SwitchLampOutput{
		Success: true,
		Message: fmt.Sprintf("Lamp %d switched %s", number, state),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// requiredInt reads a whole-number argument. JSON numbers arrive as float64.
func requiredInt(request mcp.CallToolRequest, key string) (int, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("required parameter %q is missing", key)
	}

	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("parameter %q must be a whole number", key)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("parameter %q is out of range", key)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("parameter %q is out of range", key)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("parameter %q must be a number", key)
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
