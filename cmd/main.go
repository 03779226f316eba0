package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"transitmetrics.dev/analytics/config"
	"transitmetrics.dev/analytics/storage"
)

var rootCmd = &cobra.Command{
	Use:          "transit-analytics",
	Short:        "Transit schedule analytics tool",
	Long:         "Ingests static transit schedules and derives headway and accessibility metrics",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(feedsCmd)
	rootCmd.AddCommand(headwaysCmd)
	rootCmd.AddCommand(kpisCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	godotenv.Load()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("GTFS_DEBUG") == "YES" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if os.Getenv("GTFS_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	return config.FromEnv()
}

// openStores wires the snapshot store and the configured registry
// backend.
func openStores(cfg config.Config) (*storage.FilesystemStore, storage.Registry, error) {
	store, err := storage.NewFilesystemStore(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	var registry storage.Registry
	switch cfg.RegistryDriver {
	case "postgres":
		registry, err = storage.NewPostgresRegistry(cfg.PostgresDSN)
	case "memory":
		registry = storage.NewMemoryRegistry()
	default:
		registry, err = storage.NewSQLiteRegistry(cfg.CatalogPath())
	}
	if err != nil {
		return nil, nil, err
	}

	return store, registry, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
