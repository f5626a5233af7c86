package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/uhi-synth/internal/export"
	"github.com/sells-group/uhi-synth/internal/metrics"
	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/stats"
	"github.com/sells-group/uhi-synth/internal/store"
	"github.com/sells-group/uhi-synth/internal/synth"
)

// minRecommendedSamples mirrors the historical dataset-size guard; a
// smaller grid still generates but is flagged as too small for
// meaningful heat-island statistics.
const minRecommendedSamples = 200

var (
	generateRows      int
	generateCols      int
	generateSeed      int64
	generateOut       string
	generateBaseName  string
	generateGeoJSON   bool
	generateShapefile bool
	generateNoStore   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the synthetic UHI dataset and export it",
	Long:  "Synthesizes a rows x cols grid from the seed and writes synthetic_uhi_dataset.csv and .xlsx (plus optional GeoJSON/shapefile sidecars) to the output directory.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var st store.Store
		if !generateNoStore {
			var err error
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		opts := export.Options{
			GeoJSON:   generateGeoJSON,
			Shapefile: generateShapefile,
			Placement: export.GridPlacement{
				OriginLon:   cfg.Export.OriginLon,
				OriginLat:   cfg.Export.OriginLat,
				CellSizeDeg: cfg.Export.CellSizeDeg,
			},
		}

		_, err := runGenerate(ctx, st, generateRows, generateCols, generateSeed, generateOut, generateBaseName, opts, "cli")
		return err
	},
}

// runGenerate is the full generate flow: synthesize, export, and record
// the run. The synthesizer validates its arguments before anything
// touches the filesystem or the registry. st may be nil to skip the
// registry.
func runGenerate(ctx context.Context, st store.Store, rows, cols int, seed int64, outDir, baseName string, opts export.Options, trigger string) (*export.Artifacts, error) {
	log := zap.L().With(
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int64("seed", seed),
	)

	start := time.Now()
	ds, err := synth.Generate(rows, cols, seed)
	if err != nil {
		metrics.DatasetsGenerated.WithLabelValues(trigger, "invalid").Inc()
		return nil, err
	}
	metrics.GenerateDuration.Observe(time.Since(start).Seconds())
	metrics.CellsGenerated.Add(float64(ds.Meta.Samples))

	if ds.Meta.Samples <= minRecommendedSamples {
		log.Warn("dataset is small; heat-island statistics may be unstable",
			zap.Int("n_samples", ds.Meta.Samples),
			zap.Int("recommended", minRecommendedSamples),
		)
	}

	var run *model.GenerationRun
	if st != nil {
		run, err = st.CreateRun(ctx, rows, cols, seed)
		if err != nil {
			return nil, err
		}
		log = log.With(zap.String("run_id", run.ID))
	}

	arts, err := export.Run(ds, outDir, baseName, opts)
	if err != nil {
		metrics.DatasetsGenerated.WithLabelValues(trigger, "failed").Inc()
		if run != nil {
			if failErr := st.FailRun(ctx, run.ID, err); failErr != nil {
				log.Error("could not record failed run", zap.Error(failErr))
			}
		}
		return nil, err
	}

	summary := stats.SummarizeRun(ds)
	summary.CSVPath = arts.CSVPath
	summary.XLSXPath = arts.XLSXPath
	summary.GeoJSONPath = arts.GeoJSONPath
	summary.ShapefilePath = arts.ShapefilePath
	summary.CSVSHA256 = arts.CSVSHA256

	if run != nil {
		if err := st.CompleteRun(ctx, run.ID, summary); err != nil {
			return nil, err
		}
	}

	metrics.DatasetsGenerated.WithLabelValues(trigger, "complete").Inc()
	log.Info("dataset generated",
		zap.Int("n_samples", ds.Meta.Samples),
		zap.Int("doy", ds.Meta.DayOfYear),
		zap.String("csv", arts.CSVPath),
		zap.String("xlsx", arts.XLSXPath),
		zap.Float64("urban_lst_corr", summary.UrbanLSTCorr),
		zap.Float64("veg_lst_corr", summary.VegLSTCorr),
		zap.Duration("elapsed", time.Since(start)),
	)

	return arts, nil
}

func init() {
	generateCmd.Flags().IntVar(&generateRows, "rows", 40, "grid rows")
	generateCmd.Flags().IntVar(&generateCols, "cols", 40, "grid columns")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 42, "random seed")
	generateCmd.Flags().StringVar(&generateOut, "out", "outputs", "output directory")
	generateCmd.Flags().StringVar(&generateBaseName, "base-name", export.DefaultBaseName, "base name for output files")
	generateCmd.Flags().BoolVar(&generateGeoJSON, "geojson", false, "also write a GeoJSON sidecar of cell polygons")
	generateCmd.Flags().BoolVar(&generateShapefile, "shapefile", false, "also write a polygon shapefile sidecar")
	generateCmd.Flags().BoolVar(&generateNoStore, "no-store", false, "skip recording the run in the registry")
	rootCmd.AddCommand(generateCmd)
}
