package infrastructure

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Meta redelivers webhook events when an ACK is slow or lost, so every
// inbound message id is checked against a short-lived seen-set before
// processing.

const dedupTTL = 24 * time.Hour

// RedisDedup tracks seen message ids with SETNX + TTL so dedup survives
// restarts and is shared across replicas.
type RedisDedup struct {
	client *redis.Client
}

func NewRedisDedup(addr string) (*RedisDedup, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisDedup{client: client}, nil
}

func (d *RedisDedup) Seen(ctx context.Context, waMessageID string) bool {
	ok, err := d.client.SetNX(ctx, "wamid:"+waMessageID, 1, dedupTTL).Result()
	if err != nil {
		// Redis down: process rather than drop. Inserting a duplicate
		// message row beats losing an inbound message.
		log.Printf("[DEDUP] redis error, allowing message %s: %v", waMessageID, err)
		return false
	}
	return !ok
}

// MemoryDedup is the single-process fallback when no redis address is
// configured.
type MemoryDedup struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func NewMemoryDedup() *MemoryDedup {
	d := &MemoryDedup{seen: make(map[string]time.Time)}
	go d.cleanup()
	return d
}

func (d *MemoryDedup) Seen(_ context.Context, waMessageID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[waMessageID]; ok {
		return true
	}
	d.seen[waMessageID] = time.Now()
	return false
}

func (d *MemoryDedup) cleanup() {
	ticker := time.NewTicker(time.Hour)
	for range ticker.C {
		d.mu.Lock()
		cutoff := time.Now().Add(-dedupTTL)
		for id, at := range d.seen {
			if at.Before(cutoff) {
				delete(d.seen, id)
			}
		}
		d.mu.Unlock()
	}
}
