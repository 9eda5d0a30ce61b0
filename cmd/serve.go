package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/agentsocial/internal/logging"
	"github.com/mohammad-safakhou/agentsocial/internal/publishtools"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the standalone MCP publish server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer d.Close()
			srvCfg := d.cfg.Server
			if addr != "" {
				srvCfg.Address = addr
			}
			return publishtools.Serve(ctx, srvCfg, d.tools(), logging.New(d.cfg.General, "http"))
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.address)")
	return serve
}
