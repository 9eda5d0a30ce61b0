package mcppublish

import (
	"context"
	"fmt"
)

// Result is the JSON object a publish tool answers with, e.g.
// {post_id, status}, {media_id} or {error, status}.
type Result map[string]any

const StatusFailure = "failure"

// Field returns key as a string, formatting non-string values.
func (r Result) Field(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func (r Result) PostID() string  { return r.Field("post_id") }
func (r Result) MediaID() string { return r.Field("media_id") }
func (r Result) Status() string  { return r.Field("status") }

// ErrorText returns the tool-reported error, if any.
func (r Result) ErrorText() string { return r.Field("error") }

// Failed reports a soft failure: an error field or a failure status.
func (r Result) Failed() bool {
	return r.ErrorText() != "" || r.Status() == StatusFailure
}

func failure(msg string) Result {
	return Result{"error": msg, "status": StatusFailure}
}

// PostRequest carries publish_post arguments.
type PostRequest struct {
	Platform     string
	Text         string
	UserID       string
	ConnectionID *int64
	MediaID      *string
	Metadata     map[string]any
}

// MediaRequest carries upload_media arguments.
type MediaRequest struct {
	Platform     string
	MediaBase64  string
	UserID       string
	ConnectionID *int64
	ImageURL     *string
}

// PublishPostFunc is the in-process publish tool. Arguments are positional
// in the tool's documented order.
type PublishPostFunc func(ctx context.Context, platform, text, userID string, connectionID *int64, mediaID *string, metadata map[string]any) (Result, error)

// UploadMediaFunc is the in-process media upload tool.
type UploadMediaFunc func(ctx context.Context, platform, mediaBase64, userID string, connectionID *int64, imageURL *string) (Result, error)

// ToolResolver yields the in-process tools. It is called at most once per Client.
type ToolResolver interface {
	ResolveTools() (PublishPostFunc, UploadMediaFunc, error)
}

// ToolResolverFunc adapts a function to ToolResolver.
type ToolResolverFunc func() (PublishPostFunc, UploadMediaFunc, error)

func (f ToolResolverFunc) ResolveTools() (PublishPostFunc, UploadMediaFunc, error) { return f() }
