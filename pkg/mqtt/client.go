package mqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"cloupeer.io/missiontransfer/pkg/log"
)

// pahoClient is the broker-facing half of a mavlink.Link: a ground
// station or vehicle process opens exactly one of these and then hangs
// one Subscribe per vehicle's inbound topic off it, so a dropped
// connection and its re-subscribe storm is shared infrastructure, not
// something each link has to handle itself.
type pahoClient struct {
	cfg *ClientConfig
	cm  *autopaho.ConnectionManager

	// subscriptions holds the registered handlers.
	// Key: topic filter (string), Value: subscriptionEntry
	subscriptions sync.Map

	connected atomic.Bool
}

type subscriptionEntry struct {
	topic   string
	qos     int
	handler MessageHandler
}

// NewClient creates a new MQTT client implementing the Client interface.
func NewClient(cfg *ClientConfig) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mqtt config is required")
	}

	setDefaultConfig(cfg)

	// Basic validation using the config's own logic
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mqtt config: %w", err)
	}

	return &pahoClient{
		cfg: cfg,
	}, nil
}

func (c *pahoClient) Start(ctx context.Context) error {
	brokerURL, _ := url.Parse(c.cfg.BrokerURL) // Already validated

	pahoCfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{brokerURL},
		KeepAlive:                     c.cfg.KeepAlive,
		CleanStartOnInitialConnection: c.cfg.CleanStart,
		SessionExpiryInterval:         c.cfg.SessionExpiry,
		ReconnectBackoff:              autopaho.NewConstantBackoff(3 * time.Second),
		ConnectTimeout:                c.cfg.ConnectTimeout,
		ConnectUsername:               c.cfg.Username,
		ConnectPassword:               []byte(c.cfg.Password),
		TlsCfg: &tls.Config{
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
		},
		WillMessage: c.willMessage(),
		ClientConfig: paho.ClientConfig{
			ClientID:           c.cfg.ClientID,
			OnClientError:      c.onClientError,
			OnServerDisconnect: c.onServerDisconnect,
			OnPublishReceived: []func(paho.PublishReceived) (bool, error){
				c.router,
			},
		},
		OnConnectionUp: c.onConnectionUp,
		OnConnectError: c.onConnectError,
	}

	log.Info("Starting MQTT Client", "broker", c.cfg.BrokerURL, "clientID", c.cfg.ClientID)

	cm, err := autopaho.NewConnection(ctx, pahoCfg)
	if err != nil {
		return err
	}
	c.cm = cm
	return nil
}

func (c *pahoClient) Disconnect(ctx context.Context) {
	if c.cm != nil {
		_ = c.cm.Disconnect(ctx)
		c.connected.Store(false)
		log.Info("MQTT Client disconnected")
	}
}

func (c *pahoClient) Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error {
	if c.cm == nil {
		return fmt.Errorf("client not started")
	}

	// autopaho queues the publish and flushes it once reconnected rather
	// than failing fast on c.connected == false, so a work item's send
	// only sees a failure for an encode error or an expired ctx.
	_, err := c.cm.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     byte(qos),
		Retain:  retain,
		Payload: payload,
	})

	return err
}

func (c *pahoClient) Subscribe(ctx context.Context, topic string, qos int, handler MessageHandler) error {
	if c.cm == nil {
		return fmt.Errorf("client not started")
	}

	// 1. Store the handler for routing and re-connection logic
	entry := subscriptionEntry{
		topic:   topic,
		qos:     qos,
		handler: handler,
	}
	c.subscriptions.Store(topic, entry)

	// 2. If currently connected, send the SUBSCRIBE packet immediately.
	// If not connected, OnConnectionUp will handle it later.
	// Note: We don't strictly check IsConnected() because autopaho might be in a reconnecting state.
	// Attempting to subscribe usually works or queues up.
	_, err := c.cm.Subscribe(ctx, &paho.Subscribe{
		Subscriptions: []paho.SubscribeOptions{
			{Topic: topic, QoS: byte(qos)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send subscription packet: %w", err)
	}

	log.Info("Subscribed to topic", "topic", topic)
	return nil
}

func (c *pahoClient) Unsubscribe(ctx context.Context, topic string) error {
	if c.cm == nil {
		return fmt.Errorf("client not started")
	}

	c.subscriptions.Delete(topic)

	_, err := c.cm.Unsubscribe(ctx, &paho.Unsubscribe{
		Topics: []string{topic},
	})
	return err
}

func (c *pahoClient) AwaitConnection(ctx context.Context) error {
	if c.cm == nil {
		return fmt.Errorf("client not started")
	}
	return c.cm.AwaitConnection(ctx)
}

// IsConnected reports the last connection state autopaho reported
// through OnConnectionUp/OnConnectError/OnServerDisconnect. A vehicle
// link's Coordinator can poll this before starting a new work item
// instead of discovering the drop from a failed Publish.
func (c *pahoClient) IsConnected() bool {
	return c.connected.Load()
}

// --- Internal Callbacks ---

// onConnectionUp is called when the connection is established or
// re-established. Every vehicle link that subscribed before the drop
// re-subscribes here; mission-transfer work items never see the gap,
// they just stop getting acks until their own timeout/retry takes over.
func (c *pahoClient) onConnectionUp(cm *autopaho.ConnectionManager, ack *paho.Connack) {
	c.connected.Store(true)
	log.Info("MQTT connection established")

	c.subscriptions.Range(func(key, value any) bool {
		entry := value.(subscriptionEntry)
		log.Info("re-subscribing vehicle link topic", "topic", entry.topic)
		if _, err := cm.Subscribe(context.Background(), &paho.Subscribe{
			Subscriptions: []paho.SubscribeOptions{
				{Topic: entry.topic, QoS: byte(entry.qos)},
			},
		}); err != nil {
			log.Error(err, "failed to re-subscribe vehicle link topic", "topic", entry.topic)
		}
		return true
	})
}

func (c *pahoClient) onConnectError(err error) {
	c.connected.Store(false)
	log.Error(err, "MQTT connection attempt failed, autopaho will retry")
}

func (c *pahoClient) onClientError(err error) {
	log.Error(err, "MQTT client internal error")
}

func (c *pahoClient) onServerDisconnect(d *paho.Disconnect) {
	c.connected.Store(false)
	log.Warn("MQTT broker requested disconnect", "reason", d.Properties.ReasonString)
}

// router dispatches an inbound publish to every matching subscription.
// One mavlink.Link per vehicle shares this client, each subscribed to
// its own inbound topic, so a ground station with a few dozen
// vehicles still does a few-dozen-entry scan per message; that is
// cheap next to the JSON envelope decode each handler does next.
func (c *pahoClient) router(p paho.PublishReceived) (bool, error) {
	matched := false
	c.subscriptions.Range(func(key, value any) bool {
		entry := value.(subscriptionEntry)
		if topicsMatch(topicFilter(entry.topic), p.Packet.Topic) {
			// Run off the paho reader goroutine: a slow mavlink handler
			// (decode error log, timeout re-arm) must not stall delivery
			// to other vehicles sharing this client.
			go func(h MessageHandler) {
				h(context.Background(), p.Packet.Topic, p.Packet.Payload)
			}(entry.handler)
			matched = true
		}
		return true
	})

	if !matched {
		log.Debug("received message on unhandled topic", "topic", p.Packet.Topic)
	}

	return true, nil
}

func (c *pahoClient) willMessage() *paho.WillMessage {
	if c.cfg.WillTopic == "" {
		return nil
	}
	return &paho.WillMessage{
		Topic:   c.cfg.WillTopic,
		Payload: c.cfg.WillPayload,
		QoS:     c.cfg.WillQoS,
		Retain:  c.cfg.WillRetain,
	}
}

// topicsMatch checks if a topic matches a filter (supports wildcards + and #).
func topicsMatch(filter, topic string) bool {
	// This is a simplified matcher. Paho often has internal ones, but for transparency:
	if filter == topic {
		return true
	}

	// If simple equality fails, check for wildcards.
	// Optimization: if no wildcards, we are done.
	if !strings.Contains(filter, "+") && !strings.Contains(filter, "#") {
		return false
	}

	filterParts := strings.Split(filter, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range filterParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(filterParts) == len(topicParts)
}

func topicFilter(filter string) string {
	if strings.HasPrefix(filter, "$share/") {
		// Format: $share/<group>/<topic>
		parts := strings.SplitN(filter, "/", 3)
		if len(parts) == 3 {
			return parts[2]
		}
	}
	return filter
}
