package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	userID    string
	expiresAt time.Time
}

type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time

	stop chan struct{}
	once sync.Once
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

func (b *MemoryBackend) Save(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	b.mu.Lock()
	b.entries[sessionID] = memEntry{userID: userID, expiresAt: b.now().Add(ttl)}
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Load(_ context.Context, sessionID string) (string, error) {
	b.mu.RLock()
	e, ok := b.entries[sessionID]
	b.mu.RUnlock()
	if !ok || !b.now().Before(e.expiresAt) {
		return "", ErrNoSession
	}
	return e.userID, nil
}

func (b *MemoryBackend) Delete(_ context.Context, sessionID string) error {
	b.mu.Lock()
	delete(b.entries, sessionID)
	b.mu.Unlock()
	return nil
}

// Purge drops expired entries and reports how many were removed.
func (b *MemoryBackend) Purge() int {
	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, e := range b.entries {
		if !now.Before(e.expiresAt) {
			delete(b.entries, id)
			n++
		}
	}
	return n
}

// StartJanitor purges expired sessions every interval until Close.
func (b *MemoryBackend) StartJanitor(interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				b.Purge()
			case <-b.stop:
				return
			}
		}
	}()
}

func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *MemoryBackend) Close() error {
	b.once.Do(func() { close(b.stop) })
	return nil
}
