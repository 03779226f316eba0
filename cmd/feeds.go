package main

import (
	"github.com/spf13/cobra"
)

var feedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Lists ingested feeds",
	Args:  cobra.NoArgs,
	RunE:  feeds,
}

func feeds(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, registry, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	summaries, err := registry.ListFeeds()
	if err != nil {
		return err
	}

	return printJSON(summaries)
}
