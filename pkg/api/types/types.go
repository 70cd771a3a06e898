package types

import (
	"time"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// --- Request DTOs ---

// SwitchRequest is the request body for POST /lampu
type SwitchRequest struct {
	Number int  `json:"number" example:"2"`
	Status bool `json:"status" example:"true"`
}

// TimerRequest is the request body for POST /waktu
type TimerRequest struct {
	Number  int `json:"number" example:"2"`
	AddTime int `json:"addTime" example:"10" minimum:"1" maximum:"525600"` // Minutes
}

// StopRequest is the request body for POST /stop
type StopRequest struct {
	Number int `json:"number" example:"2"`
}

// --- Response DTOs ---

// Response is the envelope every lamp route answers with
type Response struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Publisher string    `json:"publisher"`
	Timestamp time.Time `json:"timestamp"`
}

// TimerResponse describes one active timer
type TimerResponse struct {
	ID          string    `json:"id"`
	Number      int       `json:"number"`
	StartAt     int64     `json:"start_at"`
	ExpiredAt   int64     `json:"expired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	RemainingMS int64     `json:"remaining_ms"`
}

// StartTimerResponse is the data of POST /waktu
type StartTimerResponse struct {
	Timer   TimerResponse `json:"timer"`
	Created bool          `json:"created"`
}

// StopTimerResponse is the data of POST /stop
type StopTimerResponse struct {
	ID string `json:"id"`
}

// ResetResponse is the data of DELETE /reset
type ResetResponse struct {
	Removed int `json:"removed"`
}

// Route is one entry of the GET / index
type Route struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}
