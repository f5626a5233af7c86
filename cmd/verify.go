package main

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/uhi-synth/internal/export"
	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/stats"
)

var (
	verifyCSV  string
	verifyXLSX string
	verifyRows int
	verifyCols int
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a generated dataset against its invariants",
	Long:  "Re-reads a dataset CSV and checks grid coverage, value ranges, index formula consistency, and the heat-island correlation signs. With --xlsx it also checks CSV/XLSX parity.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		log := zap.L().With(zap.String("csv", verifyCSV))

		records, err := export.ReadCSV(verifyCSV)
		if err != nil {
			return err
		}

		rows, cols := verifyRows, verifyCols
		if rows == 0 || cols == 0 {
			rows, cols = inferGrid(records)
			log.Info("inferred grid dimensions", zap.Int("rows", rows), zap.Int("cols", cols))
		}

		if err := stats.Verify(records, rows, cols); err != nil {
			return eris.Wrap(err, "verify")
		}

		if verifyXLSX != "" {
			xlsxRecords, err := export.ReadXLSX(verifyXLSX)
			if err != nil {
				return err
			}
			if err := compareTables(records, xlsxRecords); err != nil {
				return eris.Wrap(err, "verify: csv/xlsx parity")
			}
		}

		log.Info("dataset verified", zap.Int("n_samples", len(records)))
		return nil
	},
}

// inferGrid derives grid dimensions from the coordinates present.
func inferGrid(records []model.GridCellRecord) (rows, cols int) {
	for _, r := range records {
		if r.Y+1 > rows {
			rows = r.Y + 1
		}
		if r.X+1 > cols {
			cols = r.X + 1
		}
	}
	return rows, cols
}

// compareTables checks that two record sequences hold the same values
// within the formula tolerance, in the same order.
func compareTables(a, b []model.GridCellRecord) error {
	if len(a) != len(b) {
		return eris.Errorf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			return eris.Errorf("row %d: coordinates differ: (%d,%d) vs (%d,%d)", i, a[i].X, a[i].Y, b[i].X, b[i].Y)
		}
		av, bv := recordValues(a[i]), recordValues(b[i])
		for j := range av {
			if math.Abs(av[j]-bv[j]) > stats.FormulaTolerance {
				return eris.Errorf("row %d: %s differs: %g vs %g", i, export.Columns[j+2], av[j], bv[j])
			}
		}
	}
	return nil
}

func recordValues(r model.GridCellRecord) []float64 {
	return []float64{
		r.Elevation, r.UrbanDensity, r.Vegetation,
		r.Blue, r.Green, r.Red, r.NIR, r.SWIR, r.TIRBT,
		r.NDVI, r.NDBI, r.NDWI,
		r.Albedo, r.LST,
	}
}

func init() {
	verifyCmd.Flags().StringVar(&verifyCSV, "csv", "", "path to the dataset CSV (required)")
	verifyCmd.Flags().StringVar(&verifyXLSX, "xlsx", "", "path to the dataset XLSX for parity checking")
	verifyCmd.Flags().IntVar(&verifyRows, "rows", 0, "expected grid rows (0 = infer)")
	verifyCmd.Flags().IntVar(&verifyCols, "cols", 0, "expected grid columns (0 = infer)")
	_ = verifyCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(verifyCmd)
}
