package main

import (
	"github.com/spf13/cobra"

	"transitmetrics.dev/analytics"
)

var kpisCmd = &cobra.Command{
	Use:   "kpis <feed_id>",
	Short: "Computes whole-day service KPIs per route and direction",
	Args:  cobra.ExactArgs(1),
	RunE:  kpis,
}

func kpis(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, registry, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	feed, err := analytics.LoadFeed(store, args[0])
	if err != nil {
		return err
	}

	return printJSON(analytics.ComputeServiceKPIs(feed))
}
