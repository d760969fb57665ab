// Package pipeline wires the full batch run: load, group, bootstrap,
// render, export.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"urbanstats/internal/aggregate"
	"urbanstats/internal/bootstrap"
	"urbanstats/internal/dataset"
	"urbanstats/internal/export"
	"urbanstats/internal/render"
)

// Output file names, written next to the input unless OutDir overrides.
const (
	WorkbookName = "regional_location_bstrap.xlsx"
	SummaryName  = "regional_location_summary.csv"
)

// Config carries everything one run needs. Nothing in the pipeline reads
// package-level state.
type Config struct {
	InputPath string
	// OutDir defaults to the input file's directory.
	OutDir string
	Seed   int64
	Style  render.Style
	Logger *slog.Logger
}

// FigureName returns the file name of one chart image.
func FigureName(class dataset.SizeClass, panel string, logScale bool) string {
	scale := "linear"
	if logScale {
		scale = "log"
	}
	return fmt.Sprintf("regional_%s_location_%s_%s.png", class, panel, scale)
}

// Run executes one complete pipeline pass. Load and write failures are
// fatal and abort before any further output; groups too small to bootstrap
// are logged and omitted.
func Run(cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	records, err := dataset.Load(cfg.InputPath)
	if err != nil {
		return err
	}
	logger.Info("input loaded", "path", cfg.InputPath, "records", len(records))

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Dir(cfg.InputPath)
	}

	est := bootstrap.New(bootstrap.Config{Iterations: bootstrap.DefaultIterations, Seed: cfg.Seed})

	var sheets []export.Sheet
	var summaries []export.Summary

	resample := func(class dataset.SizeClass, metric aggregate.Metric) (map[aggregate.Key]bootstrap.Distribution, map[aggregate.Key]int, []export.Column) {
		dists := make(map[aggregate.Key]bootstrap.Distribution)
		counts := make(map[aggregate.Key]int)
		var cols []export.Column
		for _, g := range aggregate.Groups(records, class, metric) {
			dist, err := est.Resample(g.Values)
			if errors.Is(err, bootstrap.ErrInsufficientData) {
				logger.Warn("skipping group",
					"metric", string(metric),
					"region", g.Key.Region,
					"class", string(class),
					"period", g.Key.Period,
					"locations", g.Count())
				continue
			}
			dists[g.Key] = dist
			counts[g.Key] = g.Count()
			cols = append(cols, export.Column{Key: g.Key, Dist: dist})
			summaries = append(summaries, export.Summary{
				Class:  string(class),
				Metric: metric,
				Region: g.Key.Region,
				Period: g.Key.Period,
				N:      g.Count(),
				Mean:   dist.Mean(),
				Median: dist.Median(),
			})
		}
		return dists, counts, cols
	}

	for _, class := range dataset.SizeClasses {
		expansion, expansionCounts, expansionCols := resample(class, aggregate.UrbanExpansion)
		density, densityCounts, densityCols := resample(class, aggregate.PopDensity)

		// Population change is plotted as plain group means, not
		// bootstrapped.
		popMeans := make(map[aggregate.Key]float64)
		for _, g := range aggregate.Groups(records, class, aggregate.PopChange) {
			popMeans[g.Key] = g.Mean()
		}

		for _, logScale := range []bool{false, true} {
			ratesPath := filepath.Join(outDir, FigureName(class, "rates", logScale))
			if err := cfg.Style.RatesFigure(ratesPath, class, expansion, expansionCounts, popMeans, logScale); err != nil {
				return err
			}
			densityPath := filepath.Join(outDir, FigureName(class, "PD", logScale))
			if err := cfg.Style.DensityFigure(densityPath, class, density, densityCounts, logScale); err != nil {
				return err
			}
		}

		sheets = append(sheets,
			export.Sheet{Name: "UER_" + string(class), Columns: expansionCols},
			export.Sheet{Name: "PD_" + string(class), Columns: densityCols},
		)
	}

	if err := export.WriteWorkbook(filepath.Join(outDir, WorkbookName), sheets); err != nil {
		return err
	}
	if err := export.WriteSummaryCSV(filepath.Join(outDir, SummaryName), summaries); err != nil {
		return err
	}

	logger.Info("run complete", "out", outDir, "summaries", len(summaries))
	return nil
}
