package publishtools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mohammad-safakhou/agentsocial/internal/helpers"
	"github.com/mohammad-safakhou/agentsocial/internal/logging"
	"github.com/mohammad-safakhou/agentsocial/internal/mcppublish"
)

// Tools holds the tool implementations shared by the in-process resolver
// and the MCP server. Tool failures are reported in the result, never as
// a Go error.
type Tools struct {
	registry *Registry
	logger   *log.Logger
}

func NewTools(registry *Registry, logger *log.Logger) *Tools {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Tools{registry: registry, logger: logging.OrDiscard(logger)}
}

// NewDryRunTools registers the dryrun platform backed by store.
func NewDryRunTools(store Store, logger *log.Logger) *Tools {
	reg := NewRegistry()
	_ = reg.Register(DryRunName, NewDryRun(store))
	return NewTools(reg, logger)
}

func (t *Tools) Registry() *Registry { return t.registry }

// ResolveTools satisfies mcppublish.ToolResolver.
func (t *Tools) ResolveTools() (mcppublish.PublishPostFunc, mcppublish.UploadMediaFunc, error) {
	return t.PublishPost, t.UploadMedia, nil
}

func failure(format string, args ...any) mcppublish.Result {
	return mcppublish.Result{"error": fmt.Sprintf(format, args...), "status": mcppublish.StatusFailure}
}

func (t *Tools) platform(name string) (Platform, mcppublish.Result) {
	if strings.TrimSpace(name) == "" {
		return nil, failure("platform is required")
	}
	p, ok := t.registry.Get(name)
	if !ok {
		return nil, failure("unsupported platform: %s", name)
	}
	return p, nil
}

func (t *Tools) PublishPost(ctx context.Context, platform, text, userID string, connectionID *int64, mediaID *string, metadata map[string]any) (mcppublish.Result, error) {
	p, bad := t.platform(platform)
	if bad != nil {
		return bad, nil
	}
	if strings.TrimSpace(userID) == "" {
		return failure("user_id is required"), nil
	}
	text = helpers.PlainText(text)
	if text == "" {
		return failure("text is required"), nil
	}
	post := Post{
		Platform:     strings.ToLower(strings.TrimSpace(platform)),
		Text:         text,
		UserID:       userID,
		ConnectionID: connectionID,
		Metadata:     cleanMetadata(metadata),
	}
	if mediaID != nil {
		post.MediaID = *mediaID
	}
	receipt, err := p.PublishPost(ctx, post)
	if err != nil {
		t.logger.Error("publish post failed", "platform", post.Platform, "user", userID, "err", err)
		return failure("%v", err), nil
	}
	t.logger.Info("post published", "platform", post.Platform, "post_id", receipt.PostID, "media", post.MediaID != "")
	return mcppublish.Result{"post_id": receipt.PostID, "status": receipt.Status}, nil
}

func (t *Tools) UploadMedia(ctx context.Context, platform, mediaBase64, userID string, connectionID *int64, imageURL *string) (mcppublish.Result, error) {
	p, bad := t.platform(platform)
	if bad != nil {
		return bad, nil
	}
	if strings.TrimSpace(userID) == "" {
		return failure("user_id is required"), nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(mediaBase64))
	if err != nil {
		return failure("media_base64 is not valid base64: %v", err), nil
	}
	if len(data) == 0 {
		return failure("media_base64 is required"), nil
	}
	media := Media{
		Platform:     strings.ToLower(strings.TrimSpace(platform)),
		UserID:       userID,
		ConnectionID: connectionID,
		Data:         data,
		Size:         len(data),
	}
	if imageURL != nil {
		media.ImageURL = *imageURL
	}
	receipt, err := p.UploadMedia(ctx, media)
	if err != nil {
		t.logger.Error("upload media failed", "platform", media.Platform, "user", userID, "err", err)
		return failure("%v", err), nil
	}
	t.logger.Info("media uploaded", "platform", media.Platform, "media_id", receipt.MediaID, "bytes", media.Size)
	return mcppublish.Result{"media_id": receipt.MediaID}, nil
}

// cleanMetadata copies m with the caption reduced to plain text.
func cleanMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	if caption, ok := out["caption"].(string); ok {
		out["caption"] = helpers.SingleLine(caption)
	}
	return out
}
