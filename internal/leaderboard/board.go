// Package leaderboard keeps precomputed class rankings. Every committed
// roster is published to a queue; a Refresher ranks it and stores the result
// in a Cache the API reads from.
package leaderboard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"evaluation/internal/roster"
	"evaluation/internal/scoring"
)

// ErrEmpty is returned by Load before any board was stored.
var ErrEmpty = errors.New("leaderboard empty")

// Board is the ranking of one roster version of one session.
type Board struct {
	ID         string             `json:"id"`
	SessionID  string             `json:"session_id"`
	Version    int64              `json:"version"`
	ComputedAt time.Time          `json:"computed_at"`
	Standings  []scoring.Standing `json:"standings"`
	Attendance []scoring.Standing `json:"attendance"`
}

// Compute ranks r by summary score and by attendance score.
func Compute(sessionID string, version int64, r roster.Roster) Board {
	return Board{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Version:    version,
		ComputedAt: time.Now().UTC(),
		Standings:  scoring.Standings(r),
		Attendance: scoring.AttendanceStandings(r),
	}
}

// Cache stores the latest board. Store ignores a board older than the one
// already held for the same session; a board from another session always
// replaces it.
type Cache interface {
	Store(ctx context.Context, b Board) error
	Load(ctx context.Context) (Board, error)
}

func older(b, held Board) bool {
	return b.SessionID == held.SessionID && b.Version < held.Version
}

// Memory is a process-local Cache.
type Memory struct {
	mu    sync.RWMutex
	board *Board
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Store(_ context.Context, b Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.board != nil && older(b, *m.board) {
		return nil
	}
	m.board = &b
	return nil
}

func (m *Memory) Load(_ context.Context) (Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.board == nil {
		return Board{}, ErrEmpty
	}
	return *m.board, nil
}

// Redis is a Cache shared between the API and the worker.
type Redis struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedis stores the board as JSON under key. A ttl of 0 keeps it forever.
func NewRedis(client *redis.Client, key string, ttl time.Duration) *Redis {
	if key == "" {
		key = "evaluation:leaderboard"
	}
	return &Redis{client: client, key: key, ttl: ttl}
}

func (r *Redis) Store(ctx context.Context, b Board) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "encode board")
	}
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, r.key).Bytes()
		switch {
		case err == redis.Nil:
		case err != nil:
			return err
		default:
			var held Board
			if json.Unmarshal(cur, &held) == nil && older(b, held) {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, r.key, raw, r.ttl)
			return nil
		})
		return err
	}, r.key)
	return errors.Wrapf(err, "store board version %d", b.Version)
}

func (r *Redis) Load(ctx context.Context) (Board, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return Board{}, ErrEmpty
	}
	if err != nil {
		return Board{}, errors.Wrap(err, "load board")
	}
	var b Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return Board{}, errors.Wrap(err, "decode board")
	}
	return b, nil
}
