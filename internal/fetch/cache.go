package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/agentsocial/config"
	"github.com/mohammad-safakhou/agentsocial/internal/helpers"
	"github.com/mohammad-safakhou/agentsocial/internal/logging"
	"github.com/mohammad-safakhou/agentsocial/internal/media"
)

const cacheKeyPrefix = "agentsocial:image:"

// CachedDownloader is a Redis read-through cache in front of another
// downloader. Redis failures fall back to the wrapped downloader; failed
// downloads are never cached.
type CachedDownloader struct {
	next   media.Downloader
	client redis.UniversalClient
	ttl    time.Duration
	logger *log.Logger
}

func NewCachedDownloader(next media.Downloader, client redis.UniversalClient, ttl time.Duration, logger *log.Logger) *CachedDownloader {
	return &CachedDownloader{next: next, client: client, ttl: ttl, logger: logging.OrDiscard(logger)}
}

func cacheKey(url string) (string, bool) {
	fp, err := helpers.URLFingerprint(url)
	if err != nil {
		return "", false
	}
	return cacheKeyPrefix + fp, true
}

func (c *CachedDownloader) Download(ctx context.Context, url, referer string) ([]byte, error) {
	key, ok := cacheKey(url)
	if !ok {
		return c.next.Download(ctx, url, referer)
	}
	blob, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil && len(blob) > 0:
		recordDownload("cache_hit")
		return blob, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("image cache read failed", "url", url, "err", err)
	}

	blob, err = c.next.Download(ctx, url, referer)
	if err != nil {
		return nil, err
	}
	if len(blob) > 0 {
		if err := c.client.Set(ctx, key, blob, c.ttl).Err(); err != nil {
			c.logger.Warn("image cache write failed", "url", url, "err", err)
		}
	}
	return blob, nil
}

// New returns the downloader the pipeline should use: plain HTTP, wrapped in
// the Redis cache when a client is supplied.
func New(cfg config.ImagesConfig, client redis.UniversalClient, logger *log.Logger) media.Downloader {
	base := NewHTTPDownloader(cfg)
	if client == nil {
		return base
	}
	return NewCachedDownloader(base, client, cfg.Normalize().CacheTTL, logger)
}
