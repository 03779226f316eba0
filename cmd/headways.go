package main

import (
	"github.com/spf13/cobra"

	"transitmetrics.dev/analytics"
	"transitmetrics.dev/analytics/model"
)

var headwaysCmd = &cobra.Command{
	Use:   "headways <feed_id>",
	Short: "Computes headway percentiles per route, direction and time bin",
	Args:  cobra.ExactArgs(1),
	RunE:  headways,
}

var (
	timebinMinutes int
	dayTypeID      string
)

func init() {
	headwaysCmd.Flags().IntVarP(&timebinMinutes, "timebin", "t", 0, "Time bin width in minutes")
	headwaysCmd.Flags().StringVarP(&dayTypeID, "day-type", "d", "", "Restrict to a specific day type")
}

func headways(cmd *cobra.Command, args []string) error {
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

	minutes := timebinMinutes
	if minutes <= 0 {
		minutes = cfg.TimebinMinutes
	}

	bins := analytics.ComputeHeadways(feed, minutes)
	if dayTypeID != "" {
		filtered := []*model.HeadwayBin{}
		for _, bin := range bins {
			if bin.DayTypeID == dayTypeID {
				filtered = append(filtered, bin)
			}
		}
		bins = filtered
	}

	return printJSON(bins)
}
