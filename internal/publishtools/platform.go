// Package publishtools implements the publish_post and upload_media tools
// behind a platform registry and serves them over MCP.
package publishtools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Post is one text publication request.
type Post struct {
	Platform     string         `json:"platform"`
	Text         string         `json:"text"`
	UserID       string         `json:"user_id"`
	ConnectionID *int64         `json:"connection_id,omitempty"`
	MediaID      string         `json:"media_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type PostReceipt struct {
	PostID      string    `json:"post_id"`
	Status      string    `json:"status"`
	PublishedAt time.Time `json:"published_at"`
}

// Media is an image upload with already decoded bytes.
type Media struct {
	Platform     string `json:"platform"`
	UserID       string `json:"user_id"`
	ConnectionID *int64 `json:"connection_id,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Data         []byte `json:"-"`
	Size         int    `json:"size"`
}

type MediaReceipt struct {
	MediaID string `json:"media_id"`
}

// Platform publishes to one social network.
type Platform interface {
	PublishPost(ctx context.Context, p Post) (PostReceipt, error)
	UploadMedia(ctx context.Context, m Media) (MediaReceipt, error)
}

// Registry maps lower-cased platform names to implementations.
type Registry struct {
	mu        sync.RWMutex
	platforms map[string]Platform
}

func NewRegistry() *Registry {
	return &Registry{platforms: make(map[string]Platform)}
}

// Register adds or replaces a platform.
func (r *Registry) Register(name string, p Platform) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("platform name required")
	}
	if p == nil {
		return fmt.Errorf("platform %q is nil", key)
	}
	r.mu.Lock()
	r.platforms[key] = p
	r.mu.Unlock()
	return nil
}

func (r *Registry) Get(name string) (Platform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.platforms[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Names lists registered platforms in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.platforms))
	for k := range r.platforms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
