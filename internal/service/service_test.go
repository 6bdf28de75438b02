package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_pharmacy/internal/events"
	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo/gormrepo"
	"github.com/Skotchmaster/online_pharmacy/internal/session"
	"github.com/Skotchmaster/online_pharmacy/pkg/db"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _, _ string, ev events.Event) error {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingIndex struct {
	mu      sync.Mutex
	indexed map[string]models.Product
	deleted []string
}

func (r *recordingIndex) IndexProduct(_ context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexed == nil {
		r.indexed = make(map[string]models.Product)
	}
	r.indexed[p.ID] = p
	return nil
}

func (r *recordingIndex) DeleteProduct(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return nil
}

type testEnv struct {
	Repo    *gormrepo.GormRepo
	Pub     *recordingPublisher
	Index   *recordingIndex
	Auth    *AuthService
	Catalog *CatalogService
	Cart    *CartService
	Orders  *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)

	r := gormrepo.New(gdb)
	require.NoError(t, r.Migrate(context.Background()))
	t.Cleanup(func() { _ = r.Close(context.Background()) })

	pub := &recordingPublisher{}
	idx := &recordingIndex{}
	sessions := session.NewManager(session.NewMemoryBackend(), []byte("service-test-secret"), time.Hour)

	return &testEnv{
		Repo:    r,
		Pub:     pub,
		Index:   idx,
		Auth:    &AuthService{Users: r, Sessions: sessions, Events: pub, BcryptCost: 4},
		Catalog: &CatalogService{Repo: r, Events: pub, Index: idx},
		Cart:    &CartService{Repo: r, Products: r, Events: pub},
		Orders:  &OrderService{Events: pub},
	}
}

func ptr[T any](v T) *T { return &v }
