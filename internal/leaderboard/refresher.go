package leaderboard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/pkg/errors"

	"evaluation/internal/metrics"
	"evaluation/internal/queue"
	"evaluation/internal/session"
)

// Publisher forwards session commits to a queue. Its Publish method is a
// session.CommitFunc.
type Publisher struct {
	q queue.Queue
}

func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{q: q}
}

func (p *Publisher) Publish(ctx context.Context, c session.Committed) error {
	body, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode commit")
	}
	return p.q.Publish(ctx, queue.Message{Type: queue.TypeRosterCommitted, Body: body})
}

// Refresher ranks committed rosters and stores the boards.
type Refresher struct {
	cache   Cache
	metrics *metrics.Metrics
}

// NewRefresher creates a refresher; m may be nil.
func NewRefresher(cache Cache, m *metrics.Metrics) *Refresher {
	return &Refresher{cache: cache, metrics: m}
}

// Handle processes one message. Messages of other types are ignored.
func (r *Refresher) Handle(ctx context.Context, msg queue.Message) error {
	if msg.Type != queue.TypeRosterCommitted {
		return nil
	}
	start := time.Now()
	err := r.refresh(ctx, msg.Body)
	if r.metrics != nil {
		r.metrics.Refreshes.WithLabelValues(metrics.Result(err)).Inc()
		r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}
	return err
}

func (r *Refresher) refresh(ctx context.Context, body []byte) error {
	var c session.Committed
	if err := json.Unmarshal(body, &c); err != nil {
		return errors.Wrap(err, "decode commit")
	}
	b := Compute(c.SessionID, c.Version, c.Roster)
	if err := r.cache.Store(ctx, b); err != nil {
		return err
	}
	if r.metrics != nil {
		for _, st := range b.Standings {
			r.metrics.SummaryScores.Observe(float64(st.Score))
		}
	}
	return nil
}

// Run handles messages until msgs is closed or ctx ends.
func (r *Refresher) Run(ctx context.Context, msgs <-chan queue.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := r.Handle(ctx, msg); err != nil {
				log.Printf("leaderboard refresh failed: %v", err)
			}
		}
	}
}
