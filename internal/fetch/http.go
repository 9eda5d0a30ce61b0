// Package fetch downloads article images for the selector.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mohammad-safakhou/agentsocial/config"
	"github.com/mohammad-safakhou/agentsocial/internal/helpers"
)

var (
	ErrEmptyBody = errors.New("fetch: empty body")
	ErrTooLarge  = errors.New("fetch: body exceeds size limit")
	ErrBlocked   = errors.New("fetch: host not permitted by policy")
)

// StatusError is a non-2xx reply from the image host.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: http %d", e.URL, e.Status)
}

// HTTPDownloader fetches image bytes with retries on transport errors and
// 5xx replies.
type HTTPDownloader struct {
	client    *http.Client
	retries   int
	backoff   time.Duration
	maxBytes  int64
	userAgent string
	policy    config.HostPolicyConfig
}

// NewHTTPDownloader builds a downloader from the images config.
func NewHTTPDownloader(cfg config.ImagesConfig) *HTTPDownloader {
	cfg = cfg.Normalize()
	return &HTTPDownloader{
		client:    &http.Client{Timeout: cfg.Timeout},
		retries:   cfg.Retries,
		backoff:   cfg.Backoff,
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
		policy:    cfg.HostPolicy,
	}
}

func (d *HTTPDownloader) Download(ctx context.Context, url, referer string) ([]byte, error) {
	if host, ok := helpers.Host(url); !ok || !d.policy.Permits(host) {
		recordDownload("blocked")
		return nil, fmt.Errorf("%w: %s", ErrBlocked, url)
	}
	var lastErr error
	tries := d.retries + 1
	for attempt := 0; attempt < tries; attempt++ {
		blob, retry, err := d.once(ctx, url, referer)
		if err == nil {
			recordDownload("ok")
			return blob, nil
		}
		lastErr = err
		if !retry {
			break
		}
		if attempt < tries-1 {
			select {
			case <-time.After(d.backoff * time.Duration(1<<attempt)):
			case <-ctx.Done():
				recordDownload("error")
				return nil, ctx.Err()
			}
		}
	}
	recordDownload("error")
	return nil, lastErr
}

// once performs a single GET. retry reports whether the failure is transient.
func (d *HTTPDownloader) once(ctx context.Context, url, referer string) (blob []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode >= 500, &StatusError{URL: url, Status: resp.StatusCode}
	}
	if resp.ContentLength > d.maxBytes {
		return nil, false, ErrTooLarge
	}
	blob, err = io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	if int64(len(blob)) > d.maxBytes {
		return nil, false, ErrTooLarge
	}
	if len(blob) == 0 {
		return nil, false, ErrEmptyBody
	}
	return blob, false, nil
}
