package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPublishNormalize(t *testing.T) {
	p := PublishConfig{MCPPublishURL: "  http://mcp:8000  "}.Normalize()
	if p.MCPPublishURL != "http://mcp:8000" {
		t.Fatalf("expected trimmed url, got %q", p.MCPPublishURL)
	}
	if p.Timeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", p.Timeout)
	}
	if p.ProtocolVersion != DefaultProtocolVersion || p.ClientName != DefaultClientName || p.ClientVersion != DefaultClientVersion {
		t.Fatalf("unexpected handshake defaults: %+v", p)
	}
}

func TestPublishValidate(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "empty means in-process", url: ""},
		{name: "http", url: "http://localhost:8000"},
		{name: "https with path", url: "https://mcp.example.com/custom/"},
		{name: "ftp rejected", url: "ftp://example.com", wantErr: true},
		{name: "schemeless rejected", url: "example.com/mcp", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PublishConfig{MCPPublishURL: tt.url}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) err = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestImagesNormalize(t *testing.T) {
	c := ImagesConfig{Retries: -3}.Normalize()
	if c.Retries != 0 {
		t.Fatalf("expected retries clamp to 0, got %d", c.Retries)
	}
	if c.MaxBytes != 10<<20 {
		t.Fatalf("expected 10MiB cap, got %d", c.MaxBytes)
	}
	if c.UserAgent == "" || c.Timeout <= 0 || c.Backoff <= 0 || c.CacheTTL <= 0 {
		t.Fatalf("expected defaults to be filled: %+v", c)
	}
}

func TestServerNormalizeAddsLeadingSlash(t *testing.T) {
	s := ServerConfig{MCPPath: "tools"}.Normalize()
	if s.MCPPath != "/tools" {
		t.Fatalf("expected /tools, got %q", s.MCPPath)
	}
	if s.Address != ":8765" {
		t.Fatalf("expected default address, got %q", s.Address)
	}
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache"}
	if !r.Enabled() {
		t.Fatalf("expected redis to be enabled")
	}
	if got := r.Addr(); got != "cache:6379" {
		t.Fatalf("expected cache:6379, got %q", got)
	}
	if (RedisConfig{}).Enabled() {
		t.Fatalf("expected empty host to disable redis")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"general": {"log_level": "debug"},
		"publish": {"mcp_publish_url": "http://mcp.internal:9000", "timeout": "5s"},
		"images": {"retries": 3, "max_bytes": 2048, "host_policy": {"disallow": ["WWW.Tracker.io"]}},
		"storage": {"redis": {"host": "redis", "port": "6380", "db": 2}}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.General.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %q", cfg.General.LogLevel)
	}
	if cfg.Publish.MCPPublishURL != "http://mcp.internal:9000" {
		t.Fatalf("unexpected publish url %q", cfg.Publish.MCPPublishURL)
	}
	if cfg.Publish.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.Publish.Timeout)
	}
	if cfg.Images.Retries != 3 || cfg.Images.MaxBytes != 2048 {
		t.Fatalf("unexpected images config %+v", cfg.Images)
	}
	if d := cfg.Images.HostPolicy.Disallow; len(d) != 1 || d[0] != "tracker.io" {
		t.Fatalf("expected normalized host policy, got %#v", d)
	}
	if cfg.Storage.Redis.Addr() != "redis:6380" || cfg.Storage.Redis.DB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg.Storage.Redis)
	}
	if cfg.Server.MCPPath != DefaultMCPPath {
		t.Fatalf("expected default mcp path, got %q", cfg.Server.MCPPath)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MCP_PUBLISH_URL", "https://publish.example.com")
	t.Setenv("AGENTSOCIAL_GENERAL_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Publish.MCPPublishURL != "https://publish.example.com" {
		t.Fatalf("expected env publish url, got %q", cfg.Publish.MCPPublishURL)
	}
	if cfg.General.LogLevel != "warn" {
		t.Fatalf("expected warn log level, got %q", cfg.General.LogLevel)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
