package broker

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/concordlabs/concord/internal/metrics"
)

// registry is the in-process listener table shared by both broker
// implementations. Lookup is by exact topic string.
type registry struct {
	mu     sync.RWMutex
	nextID int
	topics map[string]map[int]Handler
}

func newRegistry() *registry {
	return &registry{
		topics: make(map[string]map[int]Handler),
	}
}

func (r *registry) add(topic string, h Handler) func() {
	r.mu.Lock()
	if r.topics[topic] == nil {
		r.topics[topic] = make(map[int]Handler)
	}
	id := r.nextID
	r.nextID++
	r.topics[topic][id] = h
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		if listeners, ok := r.topics[topic]; ok {
			delete(listeners, id)
			if len(listeners) == 0 {
				delete(r.topics, topic)
			}
		}
		r.mu.Unlock()
	}
}

func (r *registry) dispatch(topic string, payload []byte) int {
	r.mu.RLock()
	listeners := make([]Handler, 0, len(r.topics[topic]))
	for _, h := range r.topics[topic] {
		listeners = append(listeners, h)
	}
	r.mu.RUnlock()

	for _, h := range listeners {
		h(payload)
	}
	return len(listeners)
}

// LocalBroker delivers events within a single process, synchronously
// on the publishing goroutine. It is always connected.
type LocalBroker struct {
	reg      *registry
	watchers *stateWatchers
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		reg:      newRegistry(),
		watchers: newStateWatchers(),
	}
}

func (b *LocalBroker) Publish(_ context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	delivered := b.reg.dispatch(topic, data)
	metrics.EventsPublished.Inc()
	metrics.EventsDelivered.Add(float64(delivered))
	return nil
}

func (b *LocalBroker) Subscribe(topic string, h Handler) func() {
	return b.reg.add(topic, h)
}

func (b *LocalBroker) State() ConnState {
	return Connected
}

func (b *LocalBroker) OnStateChange(fn func(ConnState)) func() {
	return b.watchers.add(fn)
}

func (b *LocalBroker) Close() error {
	return nil
}

// stateWatchers tracks connection-state observers for fallback
// decisions (push vs poll).
type stateWatchers struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(ConnState)
}

func newStateWatchers() *stateWatchers {
	return &stateWatchers{fns: make(map[int]func(ConnState))}
}

func (w *stateWatchers) add(fn func(ConnState)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.fns[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.fns, id)
		w.mu.Unlock()
	}
}

func (w *stateWatchers) notify(state ConnState) {
	w.mu.Lock()
	fns := make([]func(ConnState), 0, len(w.fns))
	for _, fn := range w.fns {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
