package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultMCPPath         = "/mcp"
	DefaultProtocolVersion = "2024-11-05"
	DefaultClientName      = "AgentSocialS-backend"
	DefaultClientVersion   = "1.0"
)

// Config holds all configuration for the publishing pipeline.
type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Publish PublishConfig `mapstructure:"publish"`
	Images  ImagesConfig  `mapstructure:"images"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// PublishConfig controls how publish/upload calls leave the process.
// An empty MCPPublishURL keeps the tools in-process.
type PublishConfig struct {
	MCPPublishURL   string        `mapstructure:"mcp_publish_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	ProtocolVersion string        `mapstructure:"protocol_version"`
	ClientName      string        `mapstructure:"client_name"`
	ClientVersion   string        `mapstructure:"client_version"`
}

// Normalize applies defaults for unset publish values.
func (p PublishConfig) Normalize() PublishConfig {
	p.MCPPublishURL = strings.TrimSpace(p.MCPPublishURL)
	if p.Timeout <= 0 {
		p.Timeout = 60 * time.Second
	}
	if strings.TrimSpace(p.ProtocolVersion) == "" {
		p.ProtocolVersion = DefaultProtocolVersion
	}
	if strings.TrimSpace(p.ClientName) == "" {
		p.ClientName = DefaultClientName
	}
	if strings.TrimSpace(p.ClientVersion) == "" {
		p.ClientVersion = DefaultClientVersion
	}
	return p
}

func (p PublishConfig) Validate() error {
	if p.MCPPublishURL == "" {
		return nil
	}
	u, err := url.Parse(p.MCPPublishURL)
	if err != nil {
		return fmt.Errorf("publish.mcp_publish_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("publish.mcp_publish_url must be http(s), got %q", u.Scheme)
	}
	return nil
}

// ImagesConfig tunes the article image downloader.
type ImagesConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Retries   int           `mapstructure:"retries"`
	Backoff   time.Duration `mapstructure:"backoff"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	UserAgent string        `mapstructure:"user_agent"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`

	HostPolicy HostPolicyConfig `mapstructure:"host_policy"`
}

func (c ImagesConfig) Normalize() ImagesConfig {
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = 300 * time.Millisecond
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	c.UserAgent = strings.TrimSpace(c.UserAgent)
	if c.UserAgent == "" {
		c.UserAgent = "AgentSocialS/1.0 (+image-fetch)"
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 6 * time.Hour
	}
	c.HostPolicy = c.HostPolicy.Normalize()
	return c
}

// ServerConfig contains the standalone MCP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
	MCPPath string `mapstructure:"mcp_path"`
}

func (s ServerConfig) Normalize() ServerConfig {
	s.Address = strings.TrimSpace(s.Address)
	if s.Address == "" {
		s.Address = ":8765"
	}
	s.MCPPath = strings.TrimSpace(s.MCPPath)
	if s.MCPPath == "" {
		s.MCPPath = DefaultMCPPath
	}
	if !strings.HasPrefix(s.MCPPath, "/") {
		s.MCPPath = "/" + s.MCPPath
	}
	return s
}

// StorageConfig contains storage settings. Redis is optional.
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Host) != ""
}

// Addr returns host:port, defaulting the port to 6379.
func (r RedisConfig) Addr() string {
	port := strings.TrimSpace(r.Port)
	if port == "" {
		port = "6379"
	}
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), port)
}

func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	if r.DB < 0 {
		return fmt.Errorf("storage.redis.db cannot be negative")
	}
	return nil
}

// LoadConfig reads config from path (or the default search paths when path
// is empty) and overlays AGENTSOCIAL_* environment variables. A missing
// config file is only an error when path was given explicitly.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.SetDefault("general.log_level", "info")
	v.SetDefault("publish.mcp_publish_url", "")
	v.SetDefault("publish.timeout", "60s")
	v.SetDefault("publish.protocol_version", DefaultProtocolVersion)
	v.SetDefault("publish.client_name", DefaultClientName)
	v.SetDefault("publish.client_version", DefaultClientVersion)
	v.SetDefault("images.timeout", "20s")
	v.SetDefault("images.retries", 1)
	v.SetDefault("images.backoff", "300ms")
	v.SetDefault("images.max_bytes", 10<<20)
	v.SetDefault("images.cache_ttl", "6h")
	v.SetDefault("server.address", ":8765")
	v.SetDefault("server.mcp_path", DefaultMCPPath)
	v.SetDefault("storage.redis.host", "")
	v.SetDefault("storage.redis.port", "6379")

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("AGENTSOCIAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the publishing backend historically read a bare MCP_PUBLISH_URL
	_ = v.BindEnv("publish.mcp_publish_url", "AGENTSOCIAL_PUBLISH_MCP_PUBLISH_URL", "MCP_PUBLISH_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Publish = cfg.Publish.Normalize()
	cfg.Images = cfg.Images.Normalize()
	cfg.Server = cfg.Server.Normalize()

	if err := cfg.Publish.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Images.HostPolicy.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Redis.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
