package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/concordlabs/concord/internal/broker"
)

func newTestHub(t *testing.T) (*Hub, *broker.LocalBroker) {
	t.Helper()

	b := broker.NewLocalBroker()
	h := NewHub(b)
	t.Cleanup(h.Close)

	return h, b
}

// dialTestSocket spins up the handshake endpoint and connects one
// client to the given scope.
func dialTestSocket(t *testing.T, h *Hub, scopeID string) *gws.Conn {
	t.Helper()

	handler := NewWebSocketHandler(h, func(r *http.Request) (string, error) {
		return "user-1", nil
	})
	srv := httptest.NewServer(http.HandlerFunc(handler.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?channelId=" + scopeID
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return conn
}

func TestHub_FanOutDeliversEnvelope(t *testing.T) {
	h, b := newTestHub(t)
	conn := dialTestSocket(t, h, "room-1")
	defer conn.Close()

	topic := broker.AddTopic("room-1")
	require.Eventually(t, func() bool {
		return len(h.GetTopicClients(topic)) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, b.Publish(context.Background(), topic, map[string]string{"id": "m1"}))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"chat:room-1:messages","payload":{"id":"m1"}}`, string(frame))
}

func TestHub_LastClientDropsTopicSubscription(t *testing.T) {
	h, _ := newTestHub(t)
	conn := dialTestSocket(t, h, "room-2")

	topic := broker.AddTopic("room-2")
	require.Eventually(t, func() bool {
		return len(h.GetTopicClients(topic)) == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return len(h.GetTopicClients(topic)) == 0
	}, time.Second, 10*time.Millisecond)
}

// A broker delivery can snapshot a client just before its read pump
// tears down. The send channel must stay open through teardown so the
// late send lands in the buffer instead of panicking the dispatch
// goroutine.
func TestHub_DeliveryAfterClientTeardownDoesNotPanic(t *testing.T) {
	h, b := newTestHub(t)
	conn := dialTestSocket(t, h, "room-3")

	topic := broker.AddTopic("room-3")
	var client *Client
	require.Eventually(t, func() bool {
		clients := h.GetTopicClients(topic)
		if len(clients) != 1 {
			return false
		}
		client = clients[0]
		return true
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return !client.IsClientActive() && len(h.GetTopicClients(topic)) == 0
	}, time.Second, 10*time.Millisecond)

	require.NotPanics(t, func() {
		select {
		case client.Send <- []byte(`{"id":"late"}`):
		default:
		}
	})

	// the full dispatch path stays safe too
	require.NotPanics(t, func() {
		require.NoError(t, b.Publish(context.Background(), topic, map[string]string{"id": "m2"}))
	})
}
