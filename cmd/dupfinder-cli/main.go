// Command dupfinder-cli is a thin demonstration entrypoint over
// pkg/pipeline. It is intentionally minimal: the CLI layer itself is
// out of scope for this repo's core (see SPEC_FULL.md's Non-goals),
// this exists only to give the pipeline a runnable shell, matching the
// teacher's own cmd/imaged-cli shape.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/HaiderBassem/dupfinder/internal/config"
	"github.com/HaiderBassem/dupfinder/internal/events"
	"github.com/HaiderBassem/dupfinder/internal/logging"
	"github.com/HaiderBassem/dupfinder/pkg/api"
	"github.com/HaiderBassem/dupfinder/pkg/pipeline"
)

func main() {
	app := &cli.App{
		Name:    "dupfinder",
		Version: "1.0.0",
		Usage:   "Perceptual duplicate photo finder",
		Commands: []*cli.Command{
			{
				Name:   "scan",
				Usage:  "Scan directories for near-duplicate photos",
				Flags:  scanFlags(),
				Action: scanCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:     "path",
			Aliases:  []string{"p"},
			Usage:    "Directory to scan (repeatable)",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "cache",
			Aliases: []string{"c"},
			Usage:   "Persistent hash cache path (empty for in-memory)",
		},
		&cli.StringFlag{
			Name:  "algorithm",
			Usage: "Hash algorithm used for matching: average, difference, perceptual, fusion",
		},
		&cli.UintFlag{
			Name:    "threshold",
			Aliases: []string{"t"},
			Usage:   "Maximum Hamming distance to treat as a duplicate",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the full JSON result to this path",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Config file path (defaults to the per-user config)",
		},
	}
}

func scanCommand(c *cli.Context) error {
	logger, err := logging.New(logging.DefaultConfig())
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create logger: %v", err), 1)
	}

	cfg, err := buildPipelineConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	bus := events.NewBus()
	pl, err := pipeline.New(cfg, bus)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to create pipeline: %v", err), 1)
	}
	defer pl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupInterruptHandler(cancel, logger)

	sub := bus.Subscribe(64)
	defer sub.Close()
	go renderProgress(sub)

	result, err := pl.Run(ctx)
	if err != nil {
		return cli.Exit(fmt.Sprintf("scan failed: %v", err), 1)
	}

	printSummary(result)

	if outputPath := c.String("output"); outputPath != "" {
		if err := writeJSONResult(result, outputPath); err != nil {
			return cli.Exit(fmt.Sprintf("failed to write output: %v", err), 1)
		}
		fmt.Printf("Full result written to %s\n", outputPath)
	}

	return nil
}

func buildPipelineConfig(c *cli.Context) (api.PipelineConfig, error) {
	configPath := c.String("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	fileCfg, err := config.NewManager(configPath).Load()
	if err != nil {
		return api.PipelineConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := fileCfg.ToPipelineConfig()
	cfg.Paths = c.StringSlice("path")
	if v := c.String("cache"); v != "" {
		cfg.CachePath = v
	}
	if v := c.String("algorithm"); v != "" {
		cfg.Algorithm = api.AlgorithmFromString(v)
	}
	if v := c.Uint("threshold"); v > 0 {
		cfg.Threshold = uint32(v)
	}
	return cfg, nil
}

func renderProgress(sub *events.Subscription) {
	var bar *progressbar.ProgressBar

	for e := range sub.C() {
		switch e.Kind {
		case events.PipelinePhaseChanged:
			if bar != nil {
				bar.Finish()
			}
			bar = progressbar.Default(-1, e.Phase.String())
		case events.ScanPhotoFound:
			if bar != nil {
				bar.Add(1)
			}
		case events.HashProgress:
			if bar != nil {
				bar.Set(e.HashCompletedCount)
			}
		case events.CompareProgress:
			if bar != nil {
				bar.Set(e.ComparisonsDone)
			}
		case events.PipelineCompleted, events.PipelineCancelled:
			if bar != nil {
				bar.Finish()
			}
		}
	}
}

func printSummary(result api.PipelineResult) {
	summary := api.PipelineSummary{
		TotalPhotos:           result.TotalPhotos,
		DuplicateGroups:       len(result.Groups),
		DurationMs:            result.DurationMs,
		PotentialSavingsBytes: sumSavings(result.Groups),
	}
	for _, g := range result.Groups {
		summary.DuplicateCount += g.DuplicateCount()
	}
	fmt.Println()
	fmt.Println(summary.String())

	for i, g := range result.Groups {
		fmt.Printf("\nGroup %d (%s, keep %s - %s):\n", i+1, g.MatchType, g.Representative, g.RepresentativeReason)
		if g.Explanation != "" {
			fmt.Printf("  %s\n", g.Explanation)
		}
		for _, path := range g.Photos {
			marker := "  "
			if path == g.Representative {
				marker = "* "
			}
			fmt.Printf("  %s%s\n", marker, path)
		}
		fmt.Printf("  reclaimable: %s\n", humanize.Bytes(uint64(g.DuplicateSizeBytes)))
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n%d errors occurred during the scan:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

func sumSavings(groups []api.DuplicateGroup) int64 {
	var total int64
	for _, g := range groups {
		total += g.DuplicateSizeBytes
	}
	return total
}

func writeJSONResult(result api.PipelineResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func setupInterruptHandler(cancel context.CancelFunc, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Warn("received interrupt signal, stopping")
		cancel()
	}()
}
