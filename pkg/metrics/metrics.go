package metrics

import (
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/rs/zerolog/log"
)

var (
	mu        sync.RWMutex
	dogstatsd statsd.ClientInterface
)

// Init connects the DogStatsD client. An empty address leaves metrics
// disabled and every helper becomes a no-op.
func Init(addr, namespace string, tags []string) {
	if addr == "" {
		log.Debug().Msg("Datadog metrics disabled")
		return
	}

	client, err := statsd.New(addr,
		statsd.WithNamespace(namespace),
		statsd.WithTags(tags),
	)
	if err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("Failed to create DogStatsD client")
		return
	}

	mu.Lock()
	dogstatsd = client
	mu.Unlock()

	log.Info().
		Str("addr", addr).
		Str("namespace", namespace).
		Strs("tags", tags).
		Msg("Datadog metrics initialized")
}

// SetClient replaces the client, mainly for tests.
func SetClient(c statsd.ClientInterface) {
	mu.Lock()
	dogstatsd = c
	mu.Unlock()
}

// Close flushes and closes the client.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if dogstatsd != nil {
		if err := dogstatsd.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close DogStatsD client")
		}
		dogstatsd = nil
	}
}

func Gauge(name string, value float64, tags ...string) {
	mu.RLock()
	c := dogstatsd
	mu.RUnlock()
	if c != nil {
		if err := c.Gauge(name, value, tags, 1); err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("Failed to emit gauge metric")
		}
	}
}

func Count(name string, value int64, tags ...string) {
	mu.RLock()
	c := dogstatsd
	mu.RUnlock()
	if c != nil {
		if err := c.Count(name, value, tags, 1); err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("Failed to emit count metric")
		}
	}
}

func Incr(name string, tags ...string) {
	Count(name, 1, tags...)
}
