package chatclient

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/broker"
	"github.com/concordlabs/concord/internal/dtos/chat_dto"
)

// Synchronizer wires one scope's broker topics into a PageCache:
// creations on the add topic prepend, edits and soft-deletes on the
// update topic replace in place. Stop detaches both subscriptions, so
// a synchronizer for a scope the user navigated away from leaves
// nothing behind.
type Synchronizer struct {
	broker  broker.Broker
	cache   *PageCache
	scopeID string

	mu     sync.Mutex
	unsubs []func()
}

func NewSynchronizer(b broker.Broker, cache *PageCache, scopeID string) *Synchronizer {
	return &Synchronizer{
		broker:  b,
		cache:   cache,
		scopeID: scopeID,
	}
}

// Start subscribes to the scope's add and update topics. Calling Start
// on a running synchronizer is a no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.unsubs) > 0 {
		return
	}

	s.unsubs = append(s.unsubs,
		s.broker.Subscribe(broker.AddTopic(s.scopeID), s.onAdd),
		s.broker.Subscribe(broker.UpdateTopic(s.scopeID), s.onUpdate),
	)
}

// Stop removes both topic subscriptions. Safe to call twice.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
}

func (s *Synchronizer) onAdd(payload []byte) {
	var msg chat_dto.MessagePayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Warn().Err(err).Str("scopeID", s.scopeID).Msg("dropping malformed add event")
		return
	}
	s.cache.ApplyAdd(msg)
}

func (s *Synchronizer) onUpdate(payload []byte) {
	var msg chat_dto.MessagePayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		log.Warn().Err(err).Str("scopeID", s.scopeID).Msg("dropping malformed update event")
		return
	}
	s.cache.ApplyUpdate(msg)
}
