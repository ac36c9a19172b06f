package main

import (
	"fmt"

	"gazette/internal/build"

	"github.com/spf13/cobra"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the post index from the content directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		b := &build.Builder{Cfg: cfg, Log: logger.Named("build")}
		res, err := b.Run(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "indexed %d posts (revision %s)\n", res.Posts, res.Fingerprint.Revision[:12])
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "warning: %s: %s\n", w.Path, w.Msg)
		}
		return nil
	},
}
