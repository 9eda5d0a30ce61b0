package mcppublish

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	HeaderSessionID = "Mcp-Session-Id"

	methodInitialized = "notifications/initialized"
)

var (
	ErrNoResult   = errors.New("mcp: no result in response")
	ErrNoResolver = errors.New("mcp: no in-process tool resolver configured")
)

type rpcReq struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}

type rpcResp struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

func (r *rpcResp) hasError() bool {
	return len(r.Error) > 0 && string(bytes.TrimSpace(r.Error)) != "null"
}

type initializeParams struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    mcp.ClientCapabilities `json:"capabilities"`
	ClientInfo      mcp.Implementation     `json:"clientInfo"`
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// RPCError is a JSON-RPC error returned by the server.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string { return e.Message }

// rpcErrorFrom prefers error.message and falls back to the raw error value.
func rpcErrorFrom(raw json.RawMessage) *RPCError {
	var obj struct {
		Code    int             `json:"code"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && len(obj.Message) > 0 {
		var msg string
		if json.Unmarshal(obj.Message, &msg) != nil {
			msg = string(obj.Message)
		}
		return &RPCError{Code: obj.Code, Message: msg}
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return &RPCError{Message: s}
	}
	return &RPCError{Message: string(raw)}
}

// HTTPStatusError is a non-2xx transport reply.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("mcp: http %d", e.Status)
	}
	return fmt.Sprintf("mcp: http %d: %s", e.Status, e.Body)
}

// decodeResponse reads a JSON-RPC response from a plain JSON body or from
// the first data event of a text/event-stream body.
func decodeResponse(contentType string, body []byte) (*rpcResp, error) {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "text/event-stream" {
		return decodeEventStream(body)
	}
	var resp rpcResp
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("mcp: decode response: %w", err)
	}
	return &resp, nil
}

func decodeEventStream(body []byte) (*rpcResp, error) {
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), maxResponseBytes)
	var data []string
	flush := func() *rpcResp {
		defer func() { data = data[:0] }()
		if len(data) == 0 {
			return nil
		}
		var resp rpcResp
		if err := json.Unmarshal([]byte(strings.Join(data, "\n")), &resp); err != nil {
			return nil
		}
		if len(resp.Result) == 0 && !resp.hasError() {
			return nil
		}
		return &resp
	}
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if resp := flush(); resp != nil {
				return resp, nil
			}
			continue
		}
		if v, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(v, " "))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mcp: read event stream: %w", err)
	}
	if resp := flush(); resp != nil {
		return resp, nil
	}
	return nil, errors.New("mcp: no JSON-RPC message in event stream")
}

// parseToolResult extracts the tool's JSON answer from a tools/call result.
// The first text content part is parsed; text that is not a JSON object
// becomes a soft failure carrying the raw text.
func parseToolResult(raw json.RawMessage) (Result, error) {
	if isFalsy(raw) {
		return nil, ErrNoResult
	}
	var res struct {
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("mcp: malformed tool result: %w", err)
	}
	var texts []string
	for _, part := range res.Content {
		var fields map[string]json.RawMessage
		if json.Unmarshal(part, &fields) != nil {
			continue
		}
		var text string
		if t, ok := fields["text"]; ok && json.Unmarshal(t, &text) == nil {
			texts = append(texts, text)
		}
	}
	if len(texts) == 0 {
		return Result{}, nil
	}
	var out Result
	if err := json.Unmarshal([]byte(texts[0]), &out); err != nil || out == nil {
		return failure(texts[0]), nil
	}
	return out, nil
}

// isFalsy reports an absent, null or empty result value.
func isFalsy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true
	}
	switch x := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	}
	return false
}
