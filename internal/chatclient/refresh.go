package chatclient

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/broker"
)

// RefreshPolicy polls the newest page at a fixed interval while the
// broker connection is down, as a stand-in for the realtime feed. The
// poll loop starts on the transition to disconnected and is cancelled
// the moment the connection comes back.
type RefreshPolicy struct {
	broker   broker.Broker
	interval time.Duration
	refetch  func(ctx context.Context) error

	mu          sync.Mutex
	removeWatch func()
	cancelPoll  context.CancelFunc
}

func NewRefreshPolicy(b broker.Broker, interval time.Duration, refetch func(ctx context.Context) error) *RefreshPolicy {
	return &RefreshPolicy{
		broker:   b,
		interval: interval,
		refetch:  refetch,
	}
}

// Start registers for connection state changes and applies the current
// state immediately, so a policy started while already disconnected
// begins polling right away.
func (p *RefreshPolicy) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.removeWatch != nil {
		return
	}

	p.removeWatch = p.broker.OnStateChange(p.apply)
	p.applyLocked(p.broker.State())
}

func (p *RefreshPolicy) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.removeWatch != nil {
		p.removeWatch()
		p.removeWatch = nil
	}
	p.stopPollLocked()
}

func (p *RefreshPolicy) apply(state broker.ConnState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(state)
}

func (p *RefreshPolicy) applyLocked(state broker.ConnState) {
	if state == broker.Connected {
		p.stopPollLocked()
		return
	}
	if p.cancelPoll != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancelPoll = cancel
	go p.poll(ctx)
}

func (p *RefreshPolicy) stopPollLocked() {
	if p.cancelPoll != nil {
		p.cancelPoll()
		p.cancelPoll = nil
	}
}

func (p *RefreshPolicy) poll(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.refetch(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("disconnected poll refetch failed")
			}
		}
	}
}
