package publishtools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Record is one stored dry-run publication.
type Record struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Platform  string         `json:"platform"`
	UserID    string         `json:"user_id"`
	Text      string         `json:"text,omitempty"`
	MediaID   string         `json:"media_id,omitempty"`
	ImageURL  string         `json:"image_url,omitempty"`
	Size      int            `json:"size,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

const (
	KindPost  = "post"
	KindMedia = "media"
)

// Store keeps what the dryrun platform would have published.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
	List(ctx context.Context, platform string) ([]Record, error)
}

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	order   map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record), order: make(map[string][]string)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; !exists {
		s.order[rec.Platform] = append(s.order[rec.Platform], rec.ID)
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok, nil
}

func (s *MemoryStore) List(_ context.Context, platform string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.order[platform]
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out, nil
}

// RedisStore keeps records as JSON under agentsocial:publish:record:<id>
// with a per-platform index list. Both expire after ttl.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func recordKey(id string) string { return fmt.Sprintf("agentsocial:publish:record:%s", id) }
func platformKey(platform string) string {
	return fmt.Sprintf("agentsocial:publish:platform:%s", platform)
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(rec.ID), data, s.ttl)
	pipe.RPush(ctx, platformKey(rec.Platform), rec.ID)
	pipe.Expire(ctx, platformKey(rec.Platform), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Record, bool, error) {
	val, err := s.client.Get(ctx, recordKey(id)).Result()
	if err == redis.Nil {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return Record{}, false, fmt.Errorf("decode record %s: %w", id, err)
	}
	return rec, true, nil
}

// List returns the platform's records in save order, skipping expired ones.
func (s *RedisStore) List(ctx context.Context, platform string) ([]Record, error) {
	ids, err := s.client.LRange(ctx, platformKey(platform), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, ok, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
