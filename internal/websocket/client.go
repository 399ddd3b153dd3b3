package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
)

type Client struct {
	ID     string
	UserID string
	Topics []string
	Conn   *websocket.Conn
	Send   chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	active    atomic.Bool
	lastSeen  atomic.Int64
	closeOnce sync.Once
}

func NewClient(id, userID string, topics []string, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ID:     id,
		UserID: userID,
		Topics: topics,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
	c.active.Store(true)
	c.touch()
	return c
}

func (c *Client) Start(h *Hub) {
	go c.writePump()
	go c.readPump(h)
}

func (c *Client) IsClientActive() bool {
	return c.active.Load()
}

func (c *Client) GetLastSeen() time.Time {
	return time.Unix(c.lastSeen.Load(), 0)
}

func (c *Client) touch() {
	c.lastSeen.Store(time.Now().Unix())
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.active.Store(false)
		c.cancel()
		_ = c.Conn.Close()
	})
}

// writePump: take data from c.Send and send to socket + ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			if _, err := w.Write(msg); err != nil {
				_ = w.Close()
				return
			}

			_ = w.Close()

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// readPump: inbound frames are discarded, the socket is push-only;
// pongs keep the connection alive.
func (c *Client) readPump(h *Hub) {
	// Send is never closed: writePump exits through ctx, and fan-out
	// may still hold a snapshot of this client after unregister.
	defer func() {
		h.Unregister(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.touch()
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
		c.touch()
	}
}
