package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/webshop/internal/db/dbtest"
	"github.com/Skotchmaster/webshop/internal/metrics"
	"github.com/Skotchmaster/webshop/internal/models"
	"github.com/Skotchmaster/webshop/internal/repo"
	"github.com/Skotchmaster/webshop/internal/tokens"
)

var (
	testAccessSecret  = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type publishedEvent struct {
	topic string
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types(topic string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.topic != topic {
			continue
		}
		if m, ok := e.event.(map[string]any); ok {
			out = append(out, m["type"].(string))
		}
	}
	return out
}

type testEnv struct {
	db     *gorm.DB
	store  *repo.GormRepo
	auth   *AuthService
	users  *UserService
	events *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.New(t)
	store := &repo.GormRepo{DB: db}
	events := &recordingPublisher{}

	env := &testEnv{
		db:     db,
		store:  store,
		events: events,
		auth: &AuthService{
			Store:   store,
			Access:  tokens.NewCodec(testAccessSecret, 15*time.Minute),
			Refresh: tokens.NewCodec(testRefreshSecret, 4*time.Hour),
			Events:  events,
			Metrics: metrics.New("test"),
		},
		users: &UserService{
			Creds:  store,
			Users:  repo.NewStore[models.User](db),
			Events: events,
		},
	}
	require.NoError(t, env.users.EnsureUser(context.Background(), "admin", "secret", models.RoleAdmin))
	return env
}
