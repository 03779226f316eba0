// Package config resolves process configuration from environment
// variables, once, at startup. The resolved value is passed into
// components explicitly; there is no global configuration state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"transitmetrics.dev/analytics"
)

type Config struct {
	// DataDir is the storage root: snapshots live under
	// <DataDir>/feeds, the default catalog at <DataDir>/catalog.db.
	DataDir string `validate:"required"`

	TimebinMinutes          int     `validate:"gt=0"`
	AccessibilityThresholds []int   `validate:"min=1,dive,gt=0"`
	BoardingPenaltyMin      float64 `validate:"gte=0"`
	SpeedKmh                float64 `validate:"gt=0"`

	RegistryDriver string `validate:"oneof=sqlite postgres memory"`
	PostgresDSN    string `validate:"required_if=RegistryDriver postgres"`

	ListenAddr string `validate:"required"`
}

func Default() Config {
	return Config{
		DataDir:                 "data",
		TimebinMinutes:          analytics.DefaultTimebinMinutes,
		AccessibilityThresholds: analytics.DefaultThresholds(),
		BoardingPenaltyMin:      analytics.DefaultBoardingPenaltyMin,
		SpeedKmh:                analytics.DefaultSpeedKmh,
		RegistryDriver:          "sqlite",
		ListenAddr:              ":8000",
	}
}

// FromEnv resolves the configuration from GTFS_* environment
// variables, falling back to defaults, and validates the result.
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv("GTFS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GTFS_TIMEBIN_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing GTFS_TIMEBIN_MINUTES: %w", err)
		}
		cfg.TimebinMinutes = n
	}
	if v := os.Getenv("GTFS_ACCESSIBILITY_THRESHOLDS"); v != "" {
		thresholds, err := parseIntList(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing GTFS_ACCESSIBILITY_THRESHOLDS: %w", err)
		}
		cfg.AccessibilityThresholds = thresholds
	}
	if v := os.Getenv("GTFS_DEFAULT_BOARDING_PENALTY_MIN"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parsing GTFS_DEFAULT_BOARDING_PENALTY_MIN: %w", err)
		}
		cfg.BoardingPenaltyMin = f
	}
	if v := os.Getenv("GTFS_DEFAULT_SERVICE_SPEED_KMH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parsing GTFS_DEFAULT_SERVICE_SPEED_KMH: %w", err)
		}
		cfg.SpeedKmh = f
	}
	if v := os.Getenv("GTFS_REGISTRY_DRIVER"); v != "" {
		cfg.RegistryDriver = v
	}
	if v := os.Getenv("GTFS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("GTFS_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CatalogPath is where the sqlite registry lives.
func (c Config) CatalogPath() string {
	return filepath.Join(c.DataDir, "catalog.db")
}

func parseIntList(s string) ([]int, error) {
	values := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		values = append(values, n)
	}
	return values, nil
}
