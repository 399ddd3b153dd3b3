package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/metrics"
)

// Envelope is the frame written to clients: the broker topic doubles
// as the event name.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// topicRoom holds the clients attached to one topic together with the
// broker unsubscribe for that topic. The hub keeps exactly one broker
// subscription per topic, held while at least one client is attached.
type topicRoom struct {
	clients     map[*Client]struct{}
	unsubscribe func()
}

type Hub struct {
	broker broker.Broker

	rooms map[string]*topicRoom
	mu    sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc

	stats   HubStats
	statsMu sync.RWMutex

	cleanupTicker *time.Ticker
}

type HubStats struct {
	TotalTopics      int       `json:"total_topics"`
	TotalClients     int       `json:"total_clients"`
	TotalConnections int64     `json:"total_connections"`
	MessageSent      int64     `json:"message_sent"`
	LastReset        time.Time `json:"last_reset"`
}

func NewHub(b broker.Broker) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	hub := &Hub{
		broker: b,
		rooms:  make(map[string]*topicRoom),
		ctx:    ctx,
		cancel: cancel,
		stats: HubStats{
			LastReset: time.Now(),
		},
		cleanupTicker: time.NewTicker(1 * time.Minute),
	}

	go hub.cleanupRoutine()

	return hub
}

// Register attaches a client to every topic it asked for and starts
// its pumps. The first client on a topic opens the broker
// subscription for it.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	for _, topic := range client.Topics {
		room, ok := h.rooms[topic]
		if !ok {
			room = &topicRoom{clients: make(map[*Client]struct{})}
			t := topic
			room.unsubscribe = h.broker.Subscribe(t, func(payload []byte) {
				h.fanOut(t, payload)
			})
			h.rooms[topic] = room
		}
		room.clients[client] = struct{}{}
	}
	h.mu.Unlock()

	h.updateStats(func(stats *HubStats) {
		stats.TotalConnections++
	})
	metrics.OnlineConns.Inc()

	client.Start(h)

	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Strs("topics", client.Topics).Msg("ws: client registered")
}

// Unregister detaches a client; the last client on a topic drops the
// broker subscription so listeners never leak across remounts.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	for _, topic := range client.Topics {
		room, ok := h.rooms[topic]
		if !ok {
			continue
		}
		delete(room.clients, client)
		if len(room.clients) == 0 {
			room.unsubscribe()
			delete(h.rooms, topic)
		}
	}
	h.mu.Unlock()

	metrics.OnlineConns.Dec()
	log.Info().Str("clientID", client.ID).Str("userID", client.UserID).Msg("ws: client unregistered")
}

// fanOut forwards one broker delivery to every active client on the
// topic.
func (h *Hub) fanOut(topic string, payload []byte) {
	data, err := json.Marshal(Envelope{Event: topic, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("ws: failed to marshal envelope")
		return
	}

	h.mu.RLock()
	var targets []*Client
	if room, ok := h.rooms[topic]; ok {
		targets = make([]*Client, 0, len(room.clients))
		for client := range room.clients {
			if client.IsClientActive() {
				targets = append(targets, client)
			}
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	for _, client := range targets {
		select {
		case client.Send <- data:
		case <-client.ctx.Done():
			// client is closing
		default:
			// client buffer full - slow consumer
			log.Warn().Str("topic", topic).Str("clientID", client.ID).Msg("ws: slow consumer, dropping message")
			metrics.SlowConsumerDrops.Inc()
			go client.Close()
		}
	}

	h.updateStats(func(stats *HubStats) {
		stats.MessageSent += int64(len(targets))
	})

	log.Debug().Str("topic", topic).Int("targets", len(targets)).Msg("ws: fan-out completed")
}

// GetTopicClients returns all active clients attached to a topic.
func (h *Hub) GetTopicClients(topic string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var clients []*Client
	if room, ok := h.rooms[topic]; ok {
		for client := range room.clients {
			if client.IsClientActive() {
				clients = append(clients, client)
			}
		}
	}

	return clients
}

func (h *Hub) GetHubStats() HubStats {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()

	h.mu.RLock()
	h.stats.TotalTopics = len(h.rooms)

	seen := make(map[*Client]struct{})
	for _, room := range h.rooms {
		for client := range room.clients {
			if client.IsClientActive() {
				seen[client] = struct{}{}
			}
		}
	}
	h.stats.TotalClients = len(seen)
	h.mu.RUnlock()

	return h.stats
}

func (h *Hub) updateStats(fn func(*HubStats)) {
	h.statsMu.Lock()
	fn(&h.stats)
	h.statsMu.Unlock()
}

func (h *Hub) cleanupRoutine() {
	defer h.cleanupTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.cleanupTicker.C:
			h.performCleanup()
		}
	}
}

func (h *Hub) performCleanup() {
	now := time.Now()
	inactiveThreshold := 2 * time.Minute

	var toRemove []*Client

	h.mu.RLock()
	for _, room := range h.rooms {
		for client := range room.clients {
			if !client.IsClientActive() || now.Sub(client.GetLastSeen()) > inactiveThreshold {
				toRemove = append(toRemove, client)
			}
		}
	}
	h.mu.RUnlock()

	for _, client := range toRemove {
		log.Info().Str("clientID", client.ID).Msg("ws: cleaning up inactive client")
		client.Close()
	}

	log.Debug().Int("cleaned", len(toRemove)).Msg("ws: cleanup routine completed")
}

// Close gracefully shuts down the hub
func (h *Hub) Close() {
	log.Info().Msg("ws: shutting down hub")

	h.cancel()

	h.mu.RLock()
	var allClients []*Client
	for _, room := range h.rooms {
		for client := range room.clients {
			allClients = append(allClients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range allClients {
		client.Close()
	}

	log.Info().Int("clients", len(allClients)).Msg("ws: hub shutdown completed")
}
