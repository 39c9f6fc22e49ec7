package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/skillshare-hub/backend/internal/events"
)

const (
	// writeWait bounds a single frame write to the peer.
	writeWait = 10 * time.Second

	// pongWait is how long the connection survives without a pong.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound control messages from the client.
	maxMessageSize = 1024

	// sendBufferSize is the per-connection outbound buffer. A client that
	// falls this far behind misses events rather than stalling delivery.
	sendBufferSize = 64
)

// clientMessage is the inbound control frame: subscription management for
// post topics. The user topic is subscribed automatically on connect.
type clientMessage struct {
	Op    string `json:"op"`
	Topic string `json:"topic,omitempty"`
}

// serverFrame is the outbound envelope: the topic the event arrived on plus
// the event itself.
type serverFrame struct {
	Topic string        `json:"topic"`
	Event *events.Event `json:"event"`
}

// Client is one live WebSocket connection. A read pump handles control
// messages, a write pump owns all writes to the connection, and one
// forwarder goroutine per subscription moves bus events into the send
// buffer.
type Client struct {
	conn   *websocket.Conn
	bus    events.Bus
	userID string
	logger zerolog.Logger

	send chan []byte
	done chan struct{}

	mu   sync.Mutex
	subs map[string]*events.Subscription
	once sync.Once
}

func newClient(conn *websocket.Conn, bus events.Bus, userID string, logger zerolog.Logger) *Client {
	return &Client{
		conn:   conn,
		bus:    bus,
		userID: userID,
		logger: logger.With().Str("user", userID).Logger(),
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		subs:   make(map[string]*events.Subscription),
	}
}

// subscribe attaches the client to a bus topic. Duplicate subscriptions are
// no-ops.
func (c *Client) subscribe(topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subs[topic]; ok {
		return nil
	}

	sub, err := c.bus.Subscribe(topic)
	if err != nil {
		return err
	}
	c.subs[topic] = sub

	go c.forward(sub)
	return nil
}

func (c *Client) unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub, ok := c.subs[topic]; ok {
		delete(c.subs, topic)
		sub.Cancel()
	}
}

// forward moves events from one subscription into the send buffer. It
// exits when the subscription is cancelled (its channel closes).
func (c *Client) forward(sub *events.Subscription) {
	for event := range sub.C {
		data, err := json.Marshal(serverFrame{Topic: sub.Topic, Event: event})
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to marshal event frame")
			continue
		}
		select {
		case c.send <- data:
		case <-c.done:
			return
		default:
			// Slow client; this connection misses the event.
		}
	}
}

// close cancels all subscriptions and stops the write pump. Safe to call
// from either pump.
func (c *Client) close() {
	c.once.Do(func() {
		c.mu.Lock()
		for topic, sub := range c.subs {
			delete(c.subs, topic)
			sub.Cancel()
		}
		c.mu.Unlock()
		close(c.done)
		c.conn.Close()
	})
}

// readPump processes inbound control messages until the connection drops.
func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Msg("unexpected websocket close")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug().Err(err).Msg("invalid websocket message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage applies one control message. Clients may only manage
// post-topic subscriptions; their own user topic is fixed at connect time.
func (c *Client) handleMessage(msg clientMessage) {
	switch msg.Op {
	case "subscribe":
		if !strings.HasPrefix(msg.Topic, "post:") {
			c.logger.Debug().Str("topic", msg.Topic).Msg("rejected subscription topic")
			return
		}
		if err := c.subscribe(msg.Topic); err != nil {
			c.logger.Warn().Err(err).Str("topic", msg.Topic).Msg("subscribe failed")
		}
	case "unsubscribe":
		c.unsubscribe(msg.Topic)
	default:
		c.logger.Debug().Str("op", msg.Op).Msg("unknown websocket op")
	}
}

// writePump owns all writes to the connection: buffered frames and
// keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
