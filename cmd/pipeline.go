package cmd

import (
	"github.com/spf13/cobra"
)

func selectImageCMD(cfgPath *string) *cobra.Command {
	var statePath string
	c := &cobra.Command{
		Use:   "select-image",
		Short: "Choose and download the article image for a pipeline state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer d.Close()
			st, err := readState(statePath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			st = d.nodes().SelectImage(ctx, st)
			return writeState(cmd.OutOrStdout(), st)
		},
	}
	c.Flags().StringVarP(&statePath, "state", "s", "-", "pipeline state JSON file (- for stdin)")
	return c
}

func publishCMD(cfgPath *string) *cobra.Command {
	var (
		statePath string
		platform  string
		userID    string
		text      string
		connID    int64
		withImage bool
	)
	c := &cobra.Command{
		Use:   "publish",
		Short: "Publish a pipeline state's post, uploading its image first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer d.Close()
			st, err := readState(statePath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if platform != "" {
				st.Platform = platform
			}
			if userID != "" {
				st.UserID = userID
			}
			if text != "" {
				st.PostText = text
			}
			if cmd.Flags().Changed("connection-id") {
				st.ConnectionID = &connID
			}
			nodes := d.nodes()
			if withImage {
				st = nodes.SelectImage(ctx, st)
			}
			st, err = nodes.Publish(ctx, st)
			if err != nil {
				return err
			}
			return writeState(cmd.OutOrStdout(), st)
		},
	}
	c.Flags().StringVarP(&statePath, "state", "s", "-", "pipeline state JSON file (- for stdin)")
	c.Flags().StringVar(&platform, "platform", "", "target platform (overrides state)")
	c.Flags().StringVar(&userID, "user", "", "user id (overrides state)")
	c.Flags().StringVar(&text, "text", "", "post text (overrides state)")
	c.Flags().Int64Var(&connID, "connection-id", 0, "platform connection id")
	c.Flags().BoolVar(&withImage, "select-image", false, "run image selection before publishing")
	return c
}
