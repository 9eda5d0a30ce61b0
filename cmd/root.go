package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd wires the agentsocial subcommands.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:   "agentsocial",
		Short: "Pick article images and publish posts through MCP publish tools",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json or ./config.json)")

	root.AddCommand(serveCMD(&cfgPath), selectImageCMD(&cfgPath), publishCMD(&cfgPath))
	return root
}
