package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	// A settled mutation fans out one update per affected key, so the send
	// buffer is sized to absorb several full bursts before the hub starts
	// dropping.
	sendBufferSize = 32

	writeTimeout = 5 * time.Second
	pingInterval = 20 * time.Second
)

// Client represents a single attached feed connection.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

// NewClient creates a Client tied to the given hub and connection.
func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run registers the client with the hub and serves the connection until it
// closes. The feed is one-way: the read loop exists only to notice the peer
// going away.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := c.conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	c.serve(ctx)
}

// serve drains the send channel onto the connection, pinging idle peers.
// Each write carries its own deadline so one stalled peer cannot wedge the
// loop while the hub keeps broadcasting.
func (c *Client) serve(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel — connection is done
				return
			}
			if err := c.write(ctx, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}
