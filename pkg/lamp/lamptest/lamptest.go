// Package lamptest provides in-memory lamp.Store and lamp.Publisher
// implementations for tests.
package lamptest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/urmzd/lampbridge/pkg/lamp"
	"go.uber.org/multierr"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected failure")

// Store is a mutex-guarded in-memory record store. Fail* fields make the
// matching operation return ErrInjected; FailDeleteIDs fails individual
// deletes. OnList runs after every List call, before the result is returned.
type Store struct {
	mu      sync.Mutex
	records []lamp.Timer
	nextID  int64

	FailList      bool
	FailCreate    bool
	FailUpdate    bool
	FailDeleteIDs map[lamp.ID]bool
	OnList        func(call int)

	listCalls int
}

// NewStore creates a Store seeded with records. Seeded records without an
// ID get one assigned.
func NewStore(seed ...lamp.Timer) *Store {
	s := &Store{FailDeleteIDs: map[lamp.ID]bool{}}
	for _, t := range seed {
		if t.ID == "" {
			s.nextID++
			t.ID = lamp.IDFromInt(s.nextID)
		}
		s.records = append(s.records, t)
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]lamp.Timer, error) {
	s.mu.Lock()
	s.listCalls++
	call := s.listCalls
	if s.FailList {
		s.mu.Unlock()
		return nil, ErrInjected
	}
	out := make([]lamp.Timer, len(s.records))
	copy(out, s.records)
	hook := s.OnList
	s.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate {
		return lamp.Timer{}, ErrInjected
	}
	s.nextID++
	t.ID = lamp.IDFromInt(s.nextID)
	s.records = append(s.records, t)
	return t, nil
}

func (s *Store) Update(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate {
		return lamp.Timer{}, ErrInjected
	}
	for i := range s.records {
		if s.records[i].ID == t.ID {
			s.records[i] = t
			return t, nil
		}
	}
	return lamp.Timer{}, fmt.Errorf("update %s: %w", t.ID, lamp.ErrNotFound)
}

func (s *Store) Delete(ctx context.Context, id lamp.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDeleteIDs[id] {
		return ErrInjected
	}
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s: %w", id, lamp.ErrNotFound)
}

func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		kept    []lamp.Timer
		removed int
		err     error
	)
	for _, t := range s.records {
		if s.FailDeleteIDs[t.ID] {
			kept = append(kept, t)
			err = multierr.Append(err, fmt.Errorf("delete %s: %w", t.ID, ErrInjected))
			continue
		}
		removed++
	}
	s.records = kept
	return removed, err
}

// Records returns a snapshot of the stored records.
func (s *Store) Records() []lamp.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lamp.Timer, len(s.records))
	copy(out, s.records)
	return out
}

// Put replaces the record with the same ID, or appends it.
func (s *Store) Put(t lamp.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == t.ID {
			s.records[i] = t
			return
		}
	}
	s.records = append(s.records, t)
}

// Remove drops a record without going through Delete.
func (s *Store) Remove(id lamp.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// Publisher records every published command.
type Publisher struct {
	mu        sync.Mutex
	commands  []lamp.Command
	Err       error
	Connected bool
}

// NewPublisher creates a connected Publisher.
func NewPublisher() *Publisher {
	return &Publisher{Connected: true}
}

func (p *Publisher) Publish(ctx context.Context, cmd lamp.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, cmd)
	return p.Err
}

func (p *Publisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Connected
}

func (p *Publisher) Close() {}

// Commands returns the commands published so far.
func (p *Publisher) Commands() []lamp.Command {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]lamp.Command, len(p.commands))
	copy(out, p.commands)
	return out
}
