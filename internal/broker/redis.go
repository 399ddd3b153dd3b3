package broker

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/metrics"
)

const topicPattern = "chat:*"

// RedisBroker fans events out across processes over Redis pub/sub.
// In-process subscribers are held in a registry keyed by exact topic;
// deliveries arrive through the pattern subscription, so a process's
// own publishes come back the same way as everyone else's.
type RedisBroker struct {
	rdb      *redis.Client
	reg      *registry
	watchers *stateWatchers

	state atomic.Int32

	// PingInterval drives the connection watchdog. Set before Start.
	PingInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	pubsub *redis.PubSub
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	b := &RedisBroker{
		rdb:          rdb,
		reg:          newRegistry(),
		watchers:     newStateWatchers(),
		PingInterval: 2 * time.Second,
	}
	b.state.Store(int32(Disconnected))
	return b
}

// Start opens the pattern subscription and the connection watchdog.
// It returns once the subscription is confirmed.
func (b *RedisBroker) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.pubsub = b.rdb.PSubscribe(b.ctx, topicPattern)
	if _, err := b.pubsub.Receive(b.ctx); err != nil {
		log.Error().Err(err).Msg("broker: failed to confirm pub/sub subscription")
		return err
	}

	b.setState(Connected)
	log.Info().Str("pattern", topicPattern).Msg("broker: subscribed to Redis pub/sub")

	go b.receiveLoop()
	go b.watchdog()
	return nil
}

func (b *RedisBroker) receiveLoop() {
	ch := b.pubsub.Channel()
	for msg := range ch {
		delivered := b.reg.dispatch(msg.Channel, []byte(msg.Payload))
		metrics.EventsDelivered.Add(float64(delivered))
	}
	log.Info().Msg("broker: pub/sub channel closed")
}

// watchdog pings Redis on a fixed cadence and drives the observable
// connection state. go-redis reconnects the subscription by itself;
// the ping is only the liveness signal for poll fallback.
func (b *RedisBroker) watchdog() {
	ticker := time.NewTicker(b.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(b.ctx, b.PingInterval)
			err := b.rdb.Ping(pingCtx).Err()
			cancel()

			if err != nil {
				b.setState(Disconnected)
			} else {
				b.setState(Connected)
			}
		}
	}
}

func (b *RedisBroker) setState(next ConnState) {
	prev := ConnState(b.state.Swap(int32(next)))
	if prev == next {
		return
	}
	log.Info().Str("from", prev.String()).Str("to", next.String()).Msg("broker: connection state changed")
	b.watchers.notify(next)
}

// Publish is fire-and-forget: one attempt, no buffering. A failure
// here never unwinds the mutation that triggered it.
func (b *RedisBroker) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, topic, data).Err(); err != nil {
		return err
	}
	metrics.EventsPublished.Inc()
	return nil
}

func (b *RedisBroker) Subscribe(topic string, h Handler) func() {
	return b.reg.add(topic, h)
}

func (b *RedisBroker) State() ConnState {
	return ConnState(b.state.Load())
}

func (b *RedisBroker) OnStateChange(fn func(ConnState)) func() {
	return b.watchers.add(fn)
}

func (b *RedisBroker) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	if b.pubsub != nil {
		return b.pubsub.Close()
	}
	return nil
}
