package lamp

import "context"

// Store is the record store holding active timers. Backends are a
// SQLite database, a local JSON file, or a remote REST datastore.
type Store interface {
	// List returns all records in store order
	List(ctx context.Context) ([]Timer, error)

	// Create persists a new record and returns it with its assigned ID
	Create(ctx context.Context, t Timer) (Timer, error)

	// Update overwrites the record identified by t.ID
	Update(ctx context.Context, t Timer) (Timer, error)

	// Delete removes a record by ID; a missing ID wraps ErrNotFound
	Delete(ctx context.Context, id ID) error

	// DeleteAll removes every record and returns how many were removed
	DeleteAll(ctx context.Context) (int, error)
}

// Publisher delivers commands to the actuator channel.
type Publisher interface {
	// Publish sends a command; delivery is fire-and-forget
	Publish(ctx context.Context, cmd Command) error

	// IsConnected returns true if the broker connection is up
	IsConnected() bool

	// Close disconnects the publisher
	Close()
}
