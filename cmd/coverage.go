package main

import (
	"github.com/spf13/cobra"

	"transitmetrics.dev/analytics"
	"transitmetrics.dev/analytics/geo"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <feed_id>",
	Short: "Computes zone accessibility coverage",
	Args:  cobra.ExactArgs(1),
	RunE:  coverage,
}

var (
	zonesPath  string
	socioPath  string
	thresholds []int
	speedKmh   float64
	penaltyMin float64
)

func init() {
	coverageCmd.Flags().StringVarP(&zonesPath, "zones", "z", "", "Zone GeoJSON file (required)")
	coverageCmd.Flags().StringVarP(&socioPath, "socio", "s", "", "Socio-economic metrics file (CSV or JSON)")
	coverageCmd.Flags().IntSliceVarP(&thresholds, "thresholds", "T", nil, "Travel-time thresholds in minutes")
	coverageCmd.Flags().Float64VarP(&speedKmh, "speed", "S", 0, "Assumed travel speed in km/h")
	coverageCmd.Flags().Float64VarP(&penaltyMin, "penalty", "P", -1, "Boarding penalty in minutes")
	coverageCmd.MarkFlagRequired("zones")
}

func coverage(cmd *cobra.Command, args []string) error {
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
	zones, err := geo.LoadZones(zonesPath)
	if err != nil {
		return err
	}
	socio, err := geo.LoadSocio(socioPath)
	if err != nil {
		return err
	}

	params := analytics.AccessibilityParams{
		Thresholds:         cfg.AccessibilityThresholds,
		SpeedKmh:           cfg.SpeedKmh,
		BoardingPenaltyMin: cfg.BoardingPenaltyMin,
	}
	if len(thresholds) > 0 {
		params.Thresholds = thresholds
	}
	if speedKmh > 0 {
		params.SpeedKmh = speedKmh
	}
	if penaltyMin >= 0 {
		params.BoardingPenaltyMin = penaltyMin
	}

	return printJSON(analytics.ComputeAccessibility(feed, zones, socio, params))
}
