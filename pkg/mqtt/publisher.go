// Package mqtt publishes lamp commands to the actuator channel over MQTT.
package mqtt

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/lampbridge/pkg/lamp"
)

const (
	connectTimeout = 4 * time.Second
	retryInterval  = 1 * time.Second

	// DefaultPublishTimeout bounds how long Publish waits for the client
	// to hand the message to the network.
	DefaultPublishTimeout = 2 * time.Second
)

// Client is the subset of paho.Client the publisher uses.
type Client interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Options configures the broker connection.
type Options struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	Topic          string
	PublishTimeout time.Duration
}

// ClientID returns a random mqtt_<hex> client id.
func ClientID() string {
	return "mqtt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ClientOptions builds the paho options for opts.
func ClientOptions(opts Options) *paho.ClientOptions {
	clientID := opts.ClientID
	if clientID == "" {
		clientID = ClientID()
	}

	o := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(clientID).
		SetCleanSession(true).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(retryInterval)
	if opts.Username != "" {
		o.SetUsername(opts.Username)
		o.SetPassword(opts.Password)
	}

	o.SetOnConnectHandler(func(paho.Client) {
		log.Info().Str("broker", opts.Broker).Str("client_id", clientID).Msg("MQTT connected")
	})
	o.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn().Err(err).Str("broker", opts.Broker).Msg("MQTT connection lost")
	})
	o.SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
		log.Debug().Str("broker", opts.Broker).Msg("MQTT reconnecting")
	})
	return o
}

// Connect validates the broker URL and starts connecting in the
// background. The first connect is retried until it succeeds, so the
// returned publisher reports disconnected until the broker is reachable.
// Only a malformed broker URL is an error.
func Connect(opts Options) (*Publisher, error) {
	if err := validateBroker(opts.Broker); err != nil {
		return nil, err
	}
	return connect(paho.NewClient(ClientOptions(opts)), opts), nil
}

func connect(client Client, opts Options) *Publisher {
	token := client.Connect()
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			log.Error().Err(err).Str("broker", opts.Broker).Msg("MQTT connect gave up")
		}
	}()

	log.Info().Str("broker", opts.Broker).Str("topic", opts.Topic).Msg("MQTT connecting")
	return NewPublisher(client, opts.Topic, opts.PublishTimeout)
}

var brokerSchemes = map[string]bool{
	"tcp": true, "mqtt": true, "ssl": true, "tls": true, "mqtts": true, "ws": true, "wss": true,
}

func validateBroker(broker string) error {
	u, err := url.Parse(broker)
	if err != nil {
		return fmt.Errorf("invalid broker URL %q: %w", broker, err)
	}
	if !brokerSchemes[u.Scheme] || u.Host == "" {
		return fmt.Errorf("invalid broker URL %q: want scheme://host:port with tcp, ssl, ws or wss", broker)
	}
	return nil
}

// Publisher implements lamp.Publisher on a single topic.
type Publisher struct {
	client  Client
	topic   string
	timeout time.Duration
}

// NewPublisher wraps a client that is connected or still connecting.
func NewPublisher(client Client, topic string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Publisher{client: client, topic: topic, timeout: timeout}
}

// Publish sends cmd at QoS 0, not retained. Delivery is not confirmed
// beyond the client accepting the message.
func (p *Publisher) Publish(ctx context.Context, cmd lamp.Command) error {
	if !p.client.IsConnected() {
		return lamp.ErrNotConnected
	}

	payload, err := cmd.Payload()
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, 0, false, payload)

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("publish to %s: timed out after %s", p.topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}

	log.Debug().
		Str("topic", p.topic).
		Int("number", cmd.Number).
		Bool("status", cmd.Status).
		Msg("Command published")
	return nil
}

func (p *Publisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects, giving in-flight work 250ms to finish.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

var _ lamp.Publisher = (*Publisher)(nil)
