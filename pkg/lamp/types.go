package lamp

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ValidNumbers lists the lamps wired to the actuator channel.
var ValidNumbers = []int{1, 2, 3, 4}

// AllLamps is the broadcast lamp number accepted by the devices.
const AllLamps = 0

// MaxMinutes caps a single start or extension at one year.
const MaxMinutes = 365 * 24 * 60

// IsValidNumber reports whether n addresses a single known lamp.
func IsValidNumber(n int) bool {
	for _, v := range ValidNumbers {
		if v == n {
			return true
		}
	}
	return false
}

// Timer is one lamp's active countdown as persisted in the record store.
type Timer struct {
	ID        ID    `json:"id,omitempty"` // Assigned by the store on creation
	Number    int   `json:"number"`       // Lamp number
	StartAt   int64 `json:"start_at"`     // Milliseconds since epoch
	ExpiredAt int64 `json:"expired_at"`   // Milliseconds since epoch
}

// ExpiresAt returns the shutoff instant.
func (t Timer) ExpiresAt() time.Time {
	return time.UnixMilli(t.ExpiredAt)
}

// Expired reports whether the timer has lapsed at now.
func (t Timer) Expired(now time.Time) bool {
	return t.ExpiredAt <= now.UnixMilli()
}

// Remaining returns the time left until shutoff, or zero once lapsed.
func (t Timer) Remaining(now time.Time) time.Duration {
	d := t.ExpiresAt().Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// ID is an opaque record identifier. Remote datastores hand out either
// strings or integers, both decode into the string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("record id must be a string or number, got %s", data)
	}
	*id = ID(data)
	return nil
}

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// IDFromInt formats an integer row id.
func IDFromInt(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// Command is the message published to the actuator channel. The wire shape
// {"number": <int>, "status": <bool>} is what the device firmware parses.
type Command struct {
	Number int  `json:"number"`
	Status bool `json:"status"`
}

// PowerOn returns the command that switches lamp n on.
func PowerOn(n int) Command {
	return Command{Number: n, Status: true}
}

// PowerOff returns the command that switches lamp n off.
func PowerOff(n int) Command {
	return Command{Number: n, Status: false}
}

// Payload encodes the command for publishing.
func (c Command) Payload() ([]byte, error) {
	return json.Marshal(c)
}
