// Command datagen writes the synthetic 2024 transaction dataset to a CSV
// file that cmd/web (and the static-file mode) can serve.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"ecom-infographic/internal/config"
	"ecom-infographic/internal/dataset"
	"ecom-infographic/internal/observability"
)

func main() {
	var (
		out  = flag.String("out", "transactions_2024.csv", "output CSV path")
		seed = flag.Int64("seed", 42, "random seed")
		days = flag.Int("days", 365, "number of days from 2024-01-01")
	)
	flag.Parse()

	logger := observability.NewLogger(config.LoggerConfig{Level: "info", Format: "text"})
	slog.SetDefault(logger)

	gen := dataset.DefaultGenerateConfig()
	gen.Seed = *seed
	gen.Days = *days

	start := time.Now()
	records := dataset.Generate(gen)
	logger.Info("dataset generated",
		"records", len(records),
		"seed", gen.Seed,
		"days", gen.Days,
		"duration", time.Since(start),
	)

	if err := dataset.WriteCSV(*out, records); err != nil {
		logger.Error("failed to write dataset", "file", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("dataset written", "file", *out)
}
