package publishtools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mohammad-safakhou/agentsocial/internal/mcppublish"
)

const (
	ServerName    = "agentsocial-publish"
	ServerVersion = "1.0.0"
)

// NewMCPServer exposes the tools as publish_post_tool and upload_media_tool.
func NewMCPServer(t *Tools) *server.MCPServer {
	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)
	srv.AddTool(buildPublishPostTool(), t.handlePublishPost)
	srv.AddTool(buildUploadMediaTool(), t.handleUploadMedia)
	return srv
}

func buildPublishPostTool() mcp.Tool {
	return mcp.NewTool(
		mcppublish.ToolPublishPost,
		mcp.WithDescription("Publishes a text post to a social platform, optionally attaching previously uploaded media."),
		mcp.WithString("platform", mcp.Description("Target platform name"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Post body"), mcp.Required()),
		mcp.WithString("user_id", mcp.Description("Owner of the platform connection"), mcp.Required()),
		mcp.WithNumber("connection_id", mcp.Description("Platform connection to post through")),
		mcp.WithString("media_id", mcp.Description("Media id returned by upload_media_tool")),
		mcp.WithString("metadata", mcp.Description("JSON encoded object of extra post metadata")),
	)
}

func buildUploadMediaTool() mcp.Tool {
	return mcp.NewTool(
		mcppublish.ToolUploadMedia,
		mcp.WithDescription("Uploads a base64 encoded image and returns its media id."),
		mcp.WithString("platform", mcp.Description("Target platform name"), mcp.Required()),
		mcp.WithString("media_base64", mcp.Description("Standard base64 image bytes"), mcp.Required()),
		mcp.WithString("user_id", mcp.Description("Owner of the platform connection"), mcp.Required()),
		mcp.WithNumber("connection_id", mcp.Description("Platform connection to upload through")),
		mcp.WithString("image_url", mcp.Description("Original image URL")),
	)
}

func (t *Tools) handlePublishPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	connID, err := optionalInt(args, "connection_id")
	if err != nil {
		return toolResult(failure("%v", err))
	}
	meta, err := decodeMetadata(args["metadata"])
	if err != nil {
		return toolResult(failure("%v", err))
	}
	res, err := t.PublishPost(ctx,
		stringArg(args, "platform"),
		stringArg(args, "text"),
		stringArg(args, "user_id"),
		connID,
		optionalString(args, "media_id"),
		meta,
	)
	if err != nil {
		return nil, err
	}
	return toolResult(res)
}

func (t *Tools) handleUploadMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	connID, err := optionalInt(args, "connection_id")
	if err != nil {
		return toolResult(failure("%v", err))
	}
	res, err := t.UploadMedia(ctx,
		stringArg(args, "platform"),
		stringArg(args, "media_base64"),
		stringArg(args, "user_id"),
		connID,
		optionalString(args, "image_url"),
	)
	if err != nil {
		return nil, err
	}
	return toolResult(res)
}

// toolResult wraps res as a single JSON text part.
func toolResult(res mcppublish.Result) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func optionalString(args map[string]any, key string) *string {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func optionalInt(args map[string]any, key string) (*int64, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		n := int64(v)
		return &n, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer", key)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("%s must be a number", key)
	}
}

// decodeMetadata accepts the JSON string the publish client sends, or an
// object from clients that pass one directly.
func decodeMetadata(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		if v == "" {
			return nil, nil
		}
		var meta map[string]any
		if err := json.Unmarshal([]byte(v), &meta); err != nil {
			return nil, fmt.Errorf("metadata is not a JSON object: %w", err)
		}
		return meta, nil
	default:
		return nil, fmt.Errorf("metadata must be a JSON string")
	}
}
