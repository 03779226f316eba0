package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transitmetrics.dev/analytics/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the analytics HTTP API",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, registry, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	server := api.NewServer(cfg, store, registry, log.Logger)
	return server.ListenAndServe()
}
