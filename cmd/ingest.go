package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"transitmetrics.dev/analytics"
	"transitmetrics.dev/analytics/fetch"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [archive.zip]",
	Short: "Ingests a schedule archive into the local store",
	Args:  cobra.MaximumNArgs(1),
	RunE:  ingest,
}

var ingestURL string

func init() {
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "Download the archive from a URL instead of a file")
}

func ingest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && ingestURL == "" {
		return fmt.Errorf("an archive path or --url is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, registry, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	ingestor := analytics.NewIngestor(store, registry)

	var feed *analytics.Feed
	if ingestURL != "" {
		buf, err := fetch.Get(context.Background(), ingestURL, fetch.Options{})
		if err != nil {
			return fmt.Errorf("downloading archive: %w", err)
		}
		feed, err = ingestor.Ingest(buf, ingestURL)
		if err != nil {
			return err
		}
	} else {
		feed, err = ingestor.IngestFile(args[0])
		if err != nil {
			return err
		}
	}

	return printJSON(feed.Summary)
}
