package mcp

import (
	"time"

	"github.com/urmzd/lampbridge/pkg/lamp"
)

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Publisher string `json:"publisher" jsonschema:"description=MQTT publisher connection status"`
	Timestamp string `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// TimerInfo represents a timer in tool outputs
type TimerInfo struct {
	ID               string `json:"id" jsonschema:"description=Record identifier"`
	Number           int    `json:"number" jsonschema:"description=Lamp number"`
	StartedAt        string `json:"started_at" jsonschema:"description=ISO8601 start time"`
	ExpiresAt        string `json:"expires_at" jsonschema:"description=ISO8601 shutoff time"`
	RemainingSeconds int64  `json:"remaining_seconds" jsonschema:"description=Seconds until shutoff"`
}

// TimerToInfo converts a record for tool output.
func TimerToInfo(t lamp.Timer, now time.Time) TimerInfo {
	return TimerInfo{
		ID:               t.ID.String(),
		Number:           t.Number,
		StartedAt:        time.UnixMilli(t.StartAt).UTC().Format(time.RFC3339),
		ExpiresAt:        t.ExpiresAt().UTC().Format(time.RFC3339),
		RemainingSeconds: int64(t.Remaining(now).Seconds()),
	}
}

// ListTimersOutput is the output for the list_timers tool
type ListTimersOutput struct {
	Timers []TimerInfo `json:"timers" jsonschema:"description=Active timers"`
	Count  int         `json:"count" jsonschema:"description=Number of active timers"`
}

// GetTimerOutput is the output for the get_timer tool
type GetTimerOutput struct {
	Timer TimerInfo `json:"timer"`
}

// StartTimerOutput is the output for the start_timer tool
type StartTimerOutput struct {
	Timer   TimerInfo `json:"timer"`
	Created bool      `json:"created" jsonschema:"description=false when an existing timer was extended"`
	Message string    `json:"message"`
}

// StopTimerOutput is the output for the stop_timer tool
type StopTimerOutput struct {
	ID      string `json:"id" jsonschema:"description=Identifier of the removed record"`
	Message string `json:"message"`
}

// ResetTimersOutput is the output for the reset_timers tool
type ResetTimersOutput struct {
	Removed int    `json:"removed"`
	Message string `json:"message"`
}

// SwitchLampOutput is the output for the switch_lamp tool
type SwitchLampOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
