package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

// A household runs a handful of dashboard screens at most, so the
// per-client queue stays small; the hub drops events for a client that
// cannot keep up rather than stalling everyone else.
const (
	outboundQueueSize = 8
	keepAliveInterval = 45 * time.Second
)

// Client is one connected dashboard screen.
type Client struct {
	hub      *Hub
	conn     *ws.Conn
	outbound chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		outbound: make(chan []byte, outboundQueueSize),
	}
}

// Run serves the connection until it drops, then unregisters. Sync is
// one-directional: the server pushes change events and screens send
// nothing back, so inbound frames are drained only to notice the close.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writeLoop(ctx)
	c.drainInbound(ctx)
}

func (c *Client) drainInbound(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writeLoop forwards queued change events and pings between them so a
// screen that silently lost its network gets reaped.
func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
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
