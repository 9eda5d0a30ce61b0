// Package pipeline holds the article-to-post state and the nodes that
// select an image and publish it.
package pipeline

import (
	"time"

	"github.com/mohammad-safakhou/agentsocial/internal/mcppublish"
	"github.com/mohammad-safakhou/agentsocial/internal/media"
)

// State is the shared record passed between nodes.
type State struct {
	Terminated     bool                 `json:"terminated,omitempty"`
	URL            string               `json:"url,omitempty"`
	ScrapedContent media.ScrapedContent `json:"scraped_content"`
	ImageMetadata  media.Selection      `json:"image_metadata"`
	Platform       string               `json:"platform,omitempty"`
	UserID         string               `json:"user_id,omitempty"`
	ConnectionID   *int64               `json:"connection_id,omitempty"`
	PostText       string               `json:"post_text,omitempty"`
	PublishResult  mcppublish.Result    `json:"publish_result,omitempty"`
	UpdatedAt      *time.Time           `json:"updated_at,omitempty"`
}

func (s *State) touch(now time.Time) {
	s.UpdatedAt = &now
}

// ArticleURL prefers the pipeline URL over the scraper's.
func (s *State) ArticleURL() string {
	if s.URL != "" {
		return s.URL
	}
	return s.ScrapedContent.URL
}
