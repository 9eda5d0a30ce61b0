package publishtools

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"a", "b", "c"} {
		platform := "dryrun"
		if i == 2 {
			platform = "other"
		}
		if err := s.Save(ctx, Record{ID: id, Kind: KindPost, Platform: platform, Text: "t-" + id, CreatedAt: now}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}
	got, err := s.List(ctx, "dryrun")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected list %+v", got)
	}
	rec, ok, err := s.Get(ctx, "c")
	if err != nil || !ok || rec.Platform != "other" || !rec.CreatedAt.Equal(now) {
		t.Fatalf("unexpected Get: %+v ok=%v err=%v", rec, ok, err)
	}
	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("redis container: %v", err)
	}
	defer func() { _ = c.Terminate(ctx) }()
	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := c.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer rdb.Close()

	s := NewRedisStore(rdb, time.Minute)
	exerciseStore(t, s)
	ttl, err := rdb.TTL(ctx, recordKey("a")).Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("expected record ttl, got %s err=%v", ttl, err)
	}
}
