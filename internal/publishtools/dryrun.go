package publishtools

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	DryRunName      = "dryrun"
	StatusPublished = "published"
)

// DryRun records posts and uploads in a Store instead of sending them.
type DryRun struct {
	store Store
	now   func() time.Time
}

func NewDryRun(store Store) *DryRun {
	if store == nil {
		store = NewMemoryStore()
	}
	return &DryRun{store: store, now: time.Now}
}

func (d *DryRun) PublishPost(ctx context.Context, p Post) (PostReceipt, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Kind:      KindPost,
		Platform:  p.Platform,
		UserID:    p.UserID,
		Text:      p.Text,
		MediaID:   p.MediaID,
		Metadata:  p.Metadata,
		CreatedAt: d.now().UTC(),
	}
	if err := d.store.Save(ctx, rec); err != nil {
		return PostReceipt{}, err
	}
	return PostReceipt{PostID: rec.ID, Status: StatusPublished, PublishedAt: rec.CreatedAt}, nil
}

func (d *DryRun) UploadMedia(ctx context.Context, m Media) (MediaReceipt, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Kind:      KindMedia,
		Platform:  m.Platform,
		UserID:    m.UserID,
		ImageURL:  m.ImageURL,
		Size:      len(m.Data),
		CreatedAt: d.now().UTC(),
	}
	if err := d.store.Save(ctx, rec); err != nil {
		return MediaReceipt{}, err
	}
	return MediaReceipt{MediaID: rec.ID}, nil
}
