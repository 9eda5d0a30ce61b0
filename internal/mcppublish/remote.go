package mcppublish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const maxResponseBytes = 4 << 20

// post sends one JSON-RPC envelope and returns the raw reply. The session
// header is attached when one has been captured.
func (c *Client) post(ctx context.Context, payload any) (*http.Response, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("mcp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if sid := c.SessionID(); sid != "" {
		req.Header.Set(HeaderSessionID, sid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("mcp: %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp, nil, fmt.Errorf("mcp: read response: %w", err)
	}
	return resp, raw, nil
}

// ensureInitialized attempts the initialize handshake at most once per
// Client. A rejected handshake is not retried; the caller still proceeds
// with its tool call, without a session.
func (c *Client) ensureInitialized(ctx context.Context) error {
	c.handshakeMu.Lock()
	defer c.handshakeMu.Unlock()
	if c.handshakeAttempted {
		return nil
	}
	c.handshakeAttempted = true

	resp, raw, err := c.post(ctx, rpcReq{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      uuid.NewString(),
		Method:  string(mcp.MethodInitialize),
		Params: initializeParams{
			ProtocolVersion: c.cfg.ProtocolVersion,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: c.cfg.ClientName, Version: c.cfg.ClientVersion},
		},
	})
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("initialize rejected", "status", resp.StatusCode, "url", c.baseURL)
		return nil
	}
	decoded, err := decodeResponse(resp.Header.Get("Content-Type"), raw)
	if err != nil {
		c.logger.Warn("initialize reply unreadable", "err", err)
		return nil
	}
	if decoded.hasError() {
		c.logger.Warn("initialize failed", "err", rpcErrorFrom(decoded.Error).Message)
		return nil
	}

	sid := strings.TrimSpace(resp.Header.Get(HeaderSessionID))
	c.mu.Lock()
	c.initialized = true
	if sid != "" {
		c.sessionID = sid
	}
	c.mu.Unlock()
	c.logger.Debug("mcp session initialized", "session", sid)

	if _, _, err := c.post(ctx, rpcNotification{JSONRPC: mcp.JSONRPC_VERSION, Method: methodInitialized}); err != nil {
		c.logger.Warn("initialized notification failed", "err", err)
	}
	return nil
}

// callTool performs tools/call against the remote server.
func (c *Client) callTool(ctx context.Context, name string, args map[string]any) (Result, error) {
	if err := c.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	resp, raw, err := c.post(ctx, rpcReq{
		JSONRPC: mcp.JSONRPC_VERSION,
		ID:      uuid.NewString(),
		Method:  string(mcp.MethodToolsCall),
		Params:  toolCallParams{Name: name, Arguments: args},
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	decoded, err := decodeResponse(resp.Header.Get("Content-Type"), raw)
	if err != nil {
		return nil, err
	}
	if decoded.hasError() {
		return nil, rpcErrorFrom(decoded.Error)
	}
	return parseToolResult(decoded.Result)
}
