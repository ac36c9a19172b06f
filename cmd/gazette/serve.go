package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gazette/internal/serve"

	"github.com/spf13/cobra"
)

var (
	serveAddr string
	serveDev  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Index the content directory and serve the site",
	Long: `Rebuilds the post index, then serves the site until interrupted.

With --dev the content directory is watched; every change triggers a
rebuild and open pages reload themselves.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "watch content and live-reload pages")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDev {
		cfg.Server.Dev = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := serve.New(cfg, serve.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer s.Close()

	return s.ListenAndServe(ctx)
}
