package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyang/shift-router/internal/domain/event"
	porteventbus "github.com/alanyang/shift-router/internal/port/eventbus"
)

var _ porteventbus.EventBus = (*EventBus)(nil)

// EventBus fans events out across processes with Postgres NOTIFY/LISTEN.
// Each subscription holds one pooled connection for as long as it lives.
type EventBus struct {
	pool *pgxpool.Pool

	mu   sync.Mutex
	subs map[*subscription]struct{}
}

func New(pool *pgxpool.Pool) *EventBus {
	return &EventBus{
		pool: pool,
		subs: make(map[*subscription]struct{}),
	}
}

// Publish sends an event via Postgres NOTIFY on the domain channel for the event type.
func (eb *EventBus) Publish(ctx context.Context, e event.Event) error {
	ch := event.ChannelFor(e.Type)
	if ch == "" {
		return fmt.Errorf("no channel for event type %q", e.Type)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if _, err := eb.pool.Exec(ctx, "SELECT pg_notify($1, $2)", channelName(ch), string(payload)); err != nil {
		return fmt.Errorf("publishing %s on channel %s: %w", e.Type, ch, err)
	}
	return nil
}

// Subscribe LISTENs on the channel and calls handler for every event until ctx is done
// or the subscription is cancelled. A dropped connection is replaced and LISTEN re-issued.
func (eb *EventBus) Subscribe(ctx context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	name := channelName(ch)
	conn, err := eb.listen(ctx, name)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{bus: eb, cancel: cancel, done: make(chan struct{})}

	eb.mu.Lock()
	eb.subs[sub] = struct{}{}
	eb.mu.Unlock()

	go func() {
		defer func() {
			if conn != nil {
				if !conn.Conn().IsClosed() {
					conn.Exec(context.Background(), "UNLISTEN "+name) //nolint:errcheck
				}
				conn.Release()
			}
			eb.forget(sub)
			close(sub.done)
		}()

		backoff := minBackoff
		for {
			n, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() != nil {
					return
				}
				if conn.Conn().IsClosed() {
					slog.Warn("eventbus: listen connection lost, reconnecting", "channel", name, "error", err)
					conn.Release()
					if conn = eb.relisten(subCtx, name); conn == nil {
						return
					}
					backoff = minBackoff
					continue
				}
				slog.Warn("eventbus: wait for notification failed", "channel", name, "error", err)
				if !sleep(subCtx, backoff) {
					return
				}
				backoff = nextBackoff(backoff)
				continue
			}
			backoff = minBackoff

			var e event.Event
			if err := json.Unmarshal([]byte(n.Payload), &e); err != nil {
				slog.Warn("eventbus: dropping malformed payload", "channel", name, "error", err)
				continue
			}
			handler(subCtx, e)
		}
	}()

	return sub, nil
}

func (eb *EventBus) listen(ctx context.Context, name string) (*pgxpool.Conn, error) {
	conn, err := eb.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection for LISTEN: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+name); err != nil {
		conn.Release()
		return nil, fmt.Errorf("executing LISTEN on channel %s: %w", name, err)
	}
	return conn, nil
}

// relisten retries listen with backoff. It returns nil once ctx is done.
func (eb *EventBus) relisten(ctx context.Context, name string) *pgxpool.Conn {
	backoff := minBackoff
	for {
		if !sleep(ctx, backoff) {
			return nil
		}
		conn, err := eb.listen(ctx, name)
		if err == nil {
			slog.Info("eventbus: listen connection restored", "channel", name)
			return conn
		}
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("eventbus: reconnect failed", "channel", name, "error", err, "retry_in", backoff)
		backoff = nextBackoff(backoff)
	}
}

const (
	minBackoff = 100 * time.Millisecond
	maxBackoff = 5 * time.Second
)

func nextBackoff(d time.Duration) time.Duration {
	if d *= 2; d > maxBackoff {
		return maxBackoff
	}
	return d
}

// sleep waits d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// Close cancels every live subscription and waits for their connections to return to the pool.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	subs := make([]*subscription, 0, len(eb.subs))
	for s := range eb.subs {
		subs = append(subs, s)
	}
	eb.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (eb *EventBus) forget(s *subscription) {
	eb.mu.Lock()
	delete(eb.subs, s)
	eb.mu.Unlock()
}

// channelName converts a domain Channel to a safe Postgres channel identifier.
func channelName(ch event.Channel) string {
	return "shift_router_" + string(ch)
}

type subscription struct {
	bus    *EventBus
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}
