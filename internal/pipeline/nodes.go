package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mohammad-safakhou/agentsocial/internal/logging"
	"github.com/mohammad-safakhou/agentsocial/internal/mcppublish"
	"github.com/mohammad-safakhou/agentsocial/internal/media"
)

// ImageSelector is satisfied by *media.Selector.
type ImageSelector interface {
	Select(ctx context.Context, articleURL string, scraped media.ScrapedContent) media.Selection
}

// Publisher is satisfied by *mcppublish.Client.
type Publisher interface {
	PublishPost(ctx context.Context, req mcppublish.PostRequest) (mcppublish.Result, error)
	UploadMedia(ctx context.Context, req mcppublish.MediaRequest) (mcppublish.Result, error)
}

type Nodes struct {
	Selector  ImageSelector
	Publisher Publisher
	Logger    *log.Logger
	Now       func() time.Time
}

func (n *Nodes) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}

// SelectImage replaces the state's image metadata with a fresh selection.
// Terminated states pass through untouched.
func (n *Nodes) SelectImage(ctx context.Context, st *State) *State {
	if st == nil || st.Terminated {
		return st
	}
	st.ImageMetadata = media.Selection{}
	if n.Selector != nil {
		st.ImageMetadata = n.Selector.Select(ctx, st.ArticleURL(), st.ScrapedContent)
	}
	if !st.ImageMetadata.Empty() {
		logging.OrDiscard(n.Logger).Info("image selected", "url", st.ImageMetadata.ImageURL, "article", st.ArticleURL())
	}
	st.touch(n.now())
	return st
}

// Publish uploads the selected image, if any, then publishes the post text.
// A failed upload degrades to a text-only post.
func (n *Nodes) Publish(ctx context.Context, st *State) (*State, error) {
	if st == nil || st.Terminated {
		return st, nil
	}
	if n.Publisher == nil {
		return st, fmt.Errorf("publish: no publisher configured")
	}
	logger := logging.OrDiscard(n.Logger)
	img := st.ImageMetadata

	var mediaID *string
	if img.ImageBase64 != "" {
		var imageURL *string
		if img.ImageURL != "" {
			u := img.ImageURL
			imageURL = &u
		}
		up, err := n.Publisher.UploadMedia(ctx, mcppublish.MediaRequest{
			Platform:     st.Platform,
			MediaBase64:  img.ImageBase64,
			UserID:       st.UserID,
			ConnectionID: st.ConnectionID,
			ImageURL:     imageURL,
		})
		if err != nil {
			return st, fmt.Errorf("upload media: %w", err)
		}
		if id := up.MediaID(); id != "" {
			mediaID = &id
		} else {
			logger.Warn("media upload returned no media id, posting text only", "platform", st.Platform, "error", up.ErrorText())
		}
	}

	var metadata map[string]any
	if !img.Empty() {
		metadata = map[string]any{"image_url": img.ImageURL, "caption": img.Caption}
	}
	res, err := n.Publisher.PublishPost(ctx, mcppublish.PostRequest{
		Platform:     st.Platform,
		Text:         st.PostText,
		UserID:       st.UserID,
		ConnectionID: st.ConnectionID,
		MediaID:      mediaID,
		Metadata:     metadata,
	})
	if err != nil {
		return st, fmt.Errorf("publish post: %w", err)
	}
	if res.Failed() {
		logger.Warn("publish reported failure", "platform", st.Platform, "error", res.ErrorText())
	} else {
		logger.Info("post published", "platform", st.Platform, "post_id", res.PostID(), "media", mediaID != nil)
	}
	st.PublishResult = res
	st.touch(n.now())
	return st, nil
}
