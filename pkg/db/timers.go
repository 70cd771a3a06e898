package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/urmzd/lampbridge/pkg/lamp"
)

// Timers returns the record store backed by this database.
func (db *DB) Timers() lamp.Store {
	return &timerStore{db: db}
}

type timerStore struct {
	db *DB
}

func (s *timerStore) List(ctx context.Context) ([]lamp.Timer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, start_at, expired_at
		FROM timers ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	timers := []lamp.Timer{}
	for rows.Next() {
		var (
			id int64
			t  lamp.Timer
		)
		if err := rows.Scan(&id, &t.Number, &t.StartAt, &t.ExpiredAt); err != nil {
			return nil, err
		}
		t.ID = lamp.IDFromInt(id)
		timers = append(timers, t)
	}
	return timers, rows.Err()
}

func (s *timerStore) Create(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO timers (number, start_at, expired_at)
		VALUES (?, ?, ?)
	`, t.Number, t.StartAt, t.ExpiredAt)
	if err != nil {
		return lamp.Timer{}, fmt.Errorf("failed to create timer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return lamp.Timer{}, err
	}
	t.ID = lamp.IDFromInt(id)
	return t, nil
}

func (s *timerStore) Update(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	id, ok := rowID(t.ID)
	if !ok {
		return lamp.Timer{}, fmt.Errorf("timer %q: %w", t.ID, lamp.ErrNotFound)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE timers SET number = ?, start_at = ?, expired_at = ?
		WHERE id = ?
	`, t.Number, t.StartAt, t.ExpiredAt, id)
	if err != nil {
		return lamp.Timer{}, fmt.Errorf("failed to update timer: %w", err)
	}
	if err := expectRow(result, t.ID); err != nil {
		return lamp.Timer{}, err
	}
	return t, nil
}

func (s *timerStore) Delete(ctx context.Context, id lamp.ID) error {
	rid, ok := rowID(id)
	if !ok {
		return fmt.Errorf("timer %q: %w", id, lamp.ErrNotFound)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, rid)
	if err != nil {
		return err
	}
	return expectRow(result, id)
}

func (s *timerStore) DeleteAll(ctx context.Context) (int, error) {
	var removed int64
	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM timers`)
		if err != nil {
			return err
		}
		removed, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func rowID(id lamp.ID) (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	return n, err == nil
}

func expectRow(result sql.Result, id lamp.ID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("timer %q: %w", id, lamp.ErrNotFound)
	}
	return nil
}
