// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/ballotbox/models"
)

// Channel is the Postgres notification channel announcing vote changes.
const Channel = "vote_cast"

// Cache memoizes the aggregator's output until a vote changes. It
// implements voting.Notifier so the write paths can invalidate it
// directly.
type Cache struct {
	agg *Aggregator

	mu    sync.Mutex
	valid bool
	rows  []models.PositionTally
}

func NewCache(agg *Aggregator) *Cache {
	return &Cache{agg: agg}
}

// Results returns the cached tally, recomputing it if a vote has changed
// since the last read.
func (c *Cache) Results(ctx context.Context) ([]models.PositionTally, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		rows, err := c.agg.Compute(ctx)
		if err != nil {
			return nil, err
		}
		c.rows = rows
		c.valid = true
	}
	return c.rows, nil
}

// Invalidate marks the cached tally stale.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

// VoteCast implements voting.Notifier.
func (c *Cache) VoteCast() {
	c.Invalidate()
}

// Broadcaster invalidates the local cache and, on Postgres, announces the
// change on the notification channel so other server instances refresh
// their own caches.
type Broadcaster struct {
	db       *sql.DB
	cache    *Cache
	postgres bool
}

func NewBroadcaster(db *sql.DB, cache *Cache, postgres bool) *Broadcaster {
	return &Broadcaster{db: db, cache: cache, postgres: postgres}
}

// VoteCast implements voting.Notifier.
func (b *Broadcaster) VoteCast() {
	b.cache.Invalidate()
	if !b.postgres {
		return
	}
	if _, err := b.db.Exec(`SELECT pg_notify($1, '')`, Channel); err != nil {
		slog.Warn("failed to announce vote change", "error", err)
	}
}

// Listen subscribes to vote-change notifications from other instances and
// invalidates the cache when one arrives. Postgres only; the caller owns
// the returned listener's lifetime.
func Listen(databaseURL string, cache *Cache) (*pq.Listener, error) {
	listener := pq.NewListener(databaseURL, 2*time.Second, time.Minute,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				slog.Warn("tally listener event", "event", event, "error", err)
			}
		})
	if err := listener.Listen(Channel); err != nil {
		listener.Close()
		return nil, err
	}

	go func() {
		for range listener.Notify {
			cache.Invalidate()
		}
	}()

	return listener, nil
}
