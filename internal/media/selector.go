package media

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mohammad-safakhou/agentsocial/internal/helpers"
	"github.com/mohammad-safakhou/agentsocial/internal/logging"
)

// SourceFirecrawl tags selections taken from the scraper's image list.
const SourceFirecrawl = "firecrawl"

// Downloader fetches image bytes. referer may be empty.
type Downloader interface {
	Download(ctx context.Context, url, referer string) ([]byte, error)
}

// Selection is the chosen image. The zero value means no usable image and
// encodes as an empty JSON object.
type Selection struct {
	ImageURL    string `json:"image_url"`
	Caption     string `json:"caption"`
	Source      string `json:"source"`
	ImageBase64 string `json:"image_base64"`
}

// Empty reports whether no image was selected.
func (s Selection) Empty() bool {
	return s.ImageURL == "" && s.ImageBase64 == ""
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.Empty() {
		return []byte("{}"), nil
	}
	type plain Selection
	return json.Marshal(plain(s))
}

// Selector chooses one image per article, verifying it can be downloaded.
type Selector struct {
	Downloader Downloader
	Logger     *log.Logger
}

// NewSelector wires a selector around d.
func NewSelector(d Downloader, logger *log.Logger) *Selector {
	return &Selector{Downloader: d, Logger: logging.OrDiscard(logger)}
}

// Select orders the scraped images and returns the first one that is
// fetchable and downloads to non-empty bytes. Candidates are tried one at a
// time; every failure just moves on to the next.
func (s *Selector) Select(ctx context.Context, articleURL string, scraped ScrapedContent) Selection {
	logger := logging.OrDiscard(s.Logger)
	candidates := OrderCandidates(Normalize(scraped.Images), articleURL, PreferredImage(scraped.Metadata))
	if len(candidates) == 0 {
		recordSelection("no_candidates")
		return Selection{}
	}

	referer := strings.TrimSpace(articleURL)
	for _, c := range candidates {
		if ctx.Err() != nil {
			recordSelection("cancelled")
			return Selection{}
		}
		if helpers.IsLocalOrUnusable(c.Src) {
			logger.Debug("skipping unusable image", "src", c.Src)
			continue
		}
		if s.Downloader == nil {
			break
		}
		blob, err := s.Downloader.Download(ctx, c.Src, referer)
		if err != nil {
			logger.Debug("image download failed", "src", c.Src, "err", err)
			continue
		}
		if len(blob) == 0 {
			logger.Debug("image download empty", "src", c.Src)
			continue
		}
		recordSelection("selected")
		return Selection{
			ImageURL:    c.Src,
			Caption:     c.Alt,
			Source:      SourceFirecrawl,
			ImageBase64: base64.StdEncoding.EncodeToString(blob),
		}
	}
	recordSelection("exhausted")
	return Selection{}
}
