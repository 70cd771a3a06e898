// Package remote stores timer records in a REST datastore that exposes a
// json-server style collection: GET/POST on the collection URL and
// PUT/DELETE on collection/{id}.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"github.com/urmzd/lampbridge/pkg/lamp"
)

// DefaultTimeout bounds each HTTP round trip.
const DefaultTimeout = 10 * time.Second

// Store talks to the collection at baseURL.
type Store struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient replaces the default client. The client is used as given;
// WithTimeout does not modify it.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.client = c
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a store for the collection URL.
func New(baseURL string, opts ...Option) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid datastore URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid datastore URL %q: scheme must be http or https", baseURL)
	}

	s := &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s, nil
}

func (s *Store) List(ctx context.Context) ([]lamp.Timer, error) {
	timers := []lamp.Timer{}
	if err := s.do(ctx, http.MethodGet, s.baseURL, nil, &timers); err != nil {
		return nil, err
	}
	return timers, nil
}

func (s *Store) Create(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	t.ID = ""
	var created lamp.Timer
	if err := s.do(ctx, http.MethodPost, s.baseURL, t, &created); err != nil {
		return lamp.Timer{}, err
	}
	if created.ID == "" {
		return lamp.Timer{}, fmt.Errorf("datastore returned a record without an id")
	}
	return created, nil
}

// Update sends the full record, so backends that replace on PUT keep every field.
func (s *Store) Update(ctx context.Context, t lamp.Timer) (lamp.Timer, error) {
	var updated lamp.Timer
	if err := s.do(ctx, http.MethodPut, s.recordURL(t.ID), t, &updated); err != nil {
		return lamp.Timer{}, err
	}
	if updated.ID == "" {
		updated = t
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id lamp.ID) error {
	return s.do(ctx, http.MethodDelete, s.recordURL(id), nil, nil)
}

// DeleteAll lists the collection and deletes each record. Failures are
// collected and the rest are still attempted. A record that is already
// gone is not a failure, but it is not counted as removed either.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	timers, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	var (
		removed int
		errs    error
	)
	for _, t := range timers {
		err := s.Delete(ctx, t.ID)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, lamp.ErrNotFound):
			log.Debug().Str("id", t.ID.String()).Msg("Record already removed")
		default:
			errs = multierr.Append(errs, err)
		}
	}
	return removed, errs
}

func (s *Store) recordURL(id lamp.ID) string {
	return s.baseURL + "/" + url.PathEscape(id.String())
}

func (s *Store) do(ctx context.Context, method, target string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("datastore request")

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: %w", method, target, lamp.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: unexpected status %d: %s", method, target, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, target, err)
	}
	return nil
}
