// Package mcppublish calls the publish_post and upload_media tools either
// through in-process functions or over MCP streamable HTTP.
package mcppublish

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammad-safakhou/agentsocial/config"
	"github.com/mohammad-safakhou/agentsocial/internal/logging"
)

const (
	ToolPublishPost = "publish_post_tool"
	ToolUploadMedia = "upload_media_tool"
)

var tracer = otel.Tracer("agentsocial/internal/mcppublish")

// Mode tells where tool calls go.
type Mode string

const (
	ModeInProcess  Mode = "in-process"
	ModeStandalone Mode = "standalone"
)

// Options configures a Client.
type Options struct {
	Config     config.PublishConfig
	Resolver   ToolResolver
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client forwards publish and upload calls. Construct one per process and
// share it; handshake state and resolved tools live on the Client.
type Client struct {
	cfg      config.PublishConfig
	baseURL  string
	http     *http.Client
	logger   *log.Logger
	resolver ToolResolver

	resolveOnce sync.Once
	publishFn   PublishPostFunc
	uploadFn    UploadMediaFunc
	resolveErr  error

	modeOnce sync.Once

	handshakeMu        sync.Mutex
	handshakeAttempted bool

	mu          sync.Mutex
	initialized bool
	sessionID   string
}

// NewClient builds a Client. An empty or unusable publish URL selects
// in-process mode.
func NewClient(opts Options) *Client {
	cfg := opts.Config.Normalize()
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:      cfg,
		baseURL:  ResolveBaseURL(cfg.MCPPublishURL),
		http:     hc,
		logger:   logging.OrDiscard(opts.Logger),
		resolver: opts.Resolver,
	}
}

func (c *Client) Mode() Mode {
	if c.baseURL == "" {
		return ModeInProcess
	}
	return ModeStandalone
}

// BaseURL is the JSON-RPC endpoint, empty in in-process mode.
func (c *Client) BaseURL() string { return c.baseURL }

// SessionID returns the session id captured during the handshake.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Initialized reports whether the remote handshake has completed.
func (c *Client) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *Client) announce() {
	c.modeOnce.Do(func() {
		if c.Mode() == ModeStandalone {
			c.logger.Info("publishing via standalone MCP server", "url", c.baseURL)
			return
		}
		if c.cfg.MCPPublishURL != "" {
			c.logger.Warn("publish url unusable, falling back to in-process tools", "url", c.cfg.MCPPublishURL)
			return
		}
		c.logger.Info("publishing via in-process tools")
	})
}

func (c *Client) tools() (PublishPostFunc, UploadMediaFunc, error) {
	c.resolveOnce.Do(func() {
		if c.resolver == nil {
			c.resolveErr = ErrNoResolver
			return
		}
		c.publishFn, c.uploadFn, c.resolveErr = c.resolver.ResolveTools()
		if c.resolveErr == nil && (c.publishFn == nil || c.uploadFn == nil) {
			c.resolveErr = fmt.Errorf("mcp: resolver returned incomplete tool set")
		}
	})
	return c.publishFn, c.uploadFn, c.resolveErr
}

// PublishPost publishes text to a platform. Tool-level failures come back as
// a Result with an error field; transport and protocol failures as errors.
func (c *Client) PublishPost(ctx context.Context, req PostRequest) (Result, error) {
	c.announce()
	ctx, span := c.startSpan(ctx, ToolPublishPost, req.Platform)
	defer span.End()
	res, err := c.publishPost(ctx, req)
	c.finish(span, ToolPublishPost, res, err)
	return res, err
}

func (c *Client) publishPost(ctx context.Context, req PostRequest) (Result, error) {
	if c.Mode() == ModeInProcess {
		publish, _, err := c.tools()
		if err != nil {
			return nil, err
		}
		meta := req.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		return publish(ctx, req.Platform, req.Text, req.UserID, req.ConnectionID, req.MediaID, meta)
	}
	meta, err := encodeMetadata(req.Metadata)
	if err != nil {
		return nil, err
	}
	return c.callTool(ctx, ToolPublishPost, map[string]any{
		"platform":      req.Platform,
		"text":          req.Text,
		"user_id":       req.UserID,
		"connection_id": req.ConnectionID,
		"media_id":      req.MediaID,
		"metadata":      meta,
	})
}

// UploadMedia uploads a base64 encoded image and returns its media id.
func (c *Client) UploadMedia(ctx context.Context, req MediaRequest) (Result, error) {
	c.announce()
	ctx, span := c.startSpan(ctx, ToolUploadMedia, req.Platform)
	defer span.End()
	res, err := c.uploadMedia(ctx, req)
	c.finish(span, ToolUploadMedia, res, err)
	return res, err
}

func (c *Client) uploadMedia(ctx context.Context, req MediaRequest) (Result, error) {
	if c.Mode() == ModeInProcess {
		_, upload, err := c.tools()
		if err != nil {
			return nil, err
		}
		return upload(ctx, req.Platform, req.MediaBase64, req.UserID, req.ConnectionID, req.ImageURL)
	}
	return c.callTool(ctx, ToolUploadMedia, map[string]any{
		"platform":      req.Platform,
		"media_base64":  req.MediaBase64,
		"user_id":       req.UserID,
		"connection_id": req.ConnectionID,
		"image_url":     req.ImageURL,
	})
}

func (c *Client) startSpan(ctx context.Context, tool, platform string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "mcppublish."+tool)
	span.SetAttributes(
		attribute.String("tool", tool),
		attribute.String("mode", string(c.Mode())),
		attribute.String("platform", platform),
	)
	return ctx, span
}

func (c *Client) finish(span trace.Span, tool string, res Result, err error) {
	recordToolCall(tool, c.Mode(), res, err)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res.Failed():
		span.SetStatus(codes.Error, res.ErrorText())
	}
	if sid := c.SessionID(); sid != "" {
		span.SetAttributes(attribute.String("mcp.session_id", sid))
	}
}

// encodeMetadata renders metadata as the JSON string the remote tool expects.
func encodeMetadata(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("mcp: encode metadata: %w", err)
	}
	return string(b), nil
}
