package schema

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/urmzd/lampbridge/pkg/lamp"
)

// Request names the body of one lamp route.
type Request string

const (
	Switch Request = "switch" // POST /lampu
	Timer  Request = "timer"  // POST /waktu
	Stop   Request = "stop"   // POST /stop
)

// Lamp number membership is left to the timer engine so that out-of-range
// numbers surface as invalid arguments with the engine's message.

// SwitchRequest is the body of POST /lampu.
var SwitchRequest = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"number": {"type": "integer", "minimum": 0},
		"status": {"type": "boolean"}
	},
	"required": ["number", "status"]
}`)

// TimerRequest is the body of POST /waktu.
var TimerRequest = json.RawMessage(fmt.Sprintf(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"number": {"type": "integer"},
		"addTime": {"type": "integer", "minimum": 1, "maximum": %d}
	},
	"required": ["number", "addTime"]
}`, lamp.MaxMinutes))

// StopRequest is the body of POST /stop.
var StopRequest = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"number": {"type": "integer"}
	},
	"required": ["number"]
}`)

var documents = map[Request]json.RawMessage{
	Switch: SwitchRequest,
	Timer:  TimerRequest,
	Stop:   StopRequest,
}
