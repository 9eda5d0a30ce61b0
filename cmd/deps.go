package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/agentsocial/config"
	"github.com/mohammad-safakhou/agentsocial/internal/fetch"
	"github.com/mohammad-safakhou/agentsocial/internal/logging"
	"github.com/mohammad-safakhou/agentsocial/internal/mcppublish"
	"github.com/mohammad-safakhou/agentsocial/internal/media"
	"github.com/mohammad-safakhou/agentsocial/internal/pipeline"
	"github.com/mohammad-safakhou/agentsocial/internal/publishtools"
	"github.com/mohammad-safakhou/agentsocial/internal/schema"
)

type deps struct {
	cfg    *config.Config
	redis  redis.UniversalClient
	logger *log.Logger
}

func loadDeps(ctx context.Context, cfgPath string) (*deps, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, logger: logging.New(cfg.General, "agentsocial")}
	if rc := cfg.Storage.Redis; rc.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:        rc.Addr(),
			Password:    rc.Password,
			DB:          rc.DB,
			DialTimeout: rc.Timeout,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis connection failed (%s): %w", rc.Addr(), err)
		}
		d.redis = rdb
	}
	return d, nil
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
}

func (d *deps) tools() *publishtools.Tools {
	var store publishtools.Store = publishtools.NewMemoryStore()
	if d.redis != nil {
		store = publishtools.NewRedisStore(d.redis, 0)
	}
	return publishtools.NewDryRunTools(store, logging.New(d.cfg.General, "tools"))
}

func (d *deps) nodes() *pipeline.Nodes {
	downloader := fetch.New(d.cfg.Images, d.redis, logging.New(d.cfg.General, "fetch"))
	return &pipeline.Nodes{
		Selector: media.NewSelector(downloader, logging.New(d.cfg.General, "image")),
		Publisher: mcppublish.NewClient(mcppublish.Options{
			Config:   d.cfg.Publish,
			Resolver: d.tools(),
			Logger:   logging.New(d.cfg.General, "publish"),
		}),
		Logger: logging.New(d.cfg.General, "pipeline"),
	}
}

// readState decodes a pipeline state from path, or stdin when path is "-".
func readState(path string, stdin io.Reader) (*pipeline.State, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := schema.ValidateStateDocument(data); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	var st pipeline.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

func writeState(w io.Writer, st *pipeline.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
