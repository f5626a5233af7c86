// Package stats provides the aggregate checks run over a generated
// dataset: Pearson correlations, column summaries, and the invariant
// verification behind the verify command.
package stats

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/synth"
)

// FormulaTolerance is the allowed drift when recomputing indices from
// their source bands.
const FormulaTolerance = 1e-9

// Pearson computes the Pearson correlation coefficient of two equal
// length series. Degenerate input (mismatched length, fewer than two
// samples, or a zero-variance series) yields 0.
func Pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Summary holds mean and extremes of a single column.
type Summary struct {
	Mean float64
	Min  float64
	Max  float64
}

// Summarize computes mean, min, and max over a series. An empty series
// yields the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{Min: xs[0], Max: xs[0]}
	var sum float64
	for _, x := range xs {
		sum += x
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	s.Mean = sum / float64(len(xs))
	return s
}

// SummarizeRun condenses a dataset into the fields persisted with a run
// record.
func SummarizeRun(ds *model.Dataset) *model.RunSummary {
	urban := Column(ds.Records, func(r model.GridCellRecord) float64 { return r.UrbanDensity })
	veg := Column(ds.Records, func(r model.GridCellRecord) float64 { return r.Vegetation })
	lst := Column(ds.Records, func(r model.GridCellRecord) float64 { return r.LST })
	lstSummary := Summarize(lst)

	return &model.RunSummary{
		DayOfYear:    ds.Meta.DayOfYear,
		Samples:      ds.Meta.Samples,
		UrbanLSTCorr: Pearson(urban, lst),
		VegLSTCorr:   Pearson(veg, lst),
		LSTMean:      lstSummary.Mean,
		LSTMin:       lstSummary.Min,
		LSTMax:       lstSummary.Max,
	}
}

// Column extracts one field from every record.
func Column(records []model.GridCellRecord, get func(model.GridCellRecord) float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = get(r)
	}
	return out
}

// Verify checks a record set against the structural guarantees of the
// synthesizer: exact grid coverage, per-row value ranges, index formulas
// consistent with the stored bands, and the heat-island correlation
// signs. The first violation found is returned.
func Verify(records []model.GridCellRecord, rows, cols int) error {
	if err := verifyCoverage(records, rows, cols); err != nil {
		return err
	}
	for i, r := range records {
		if err := verifyRecord(i, r); err != nil {
			return err
		}
	}
	return verifyHeatIsland(records)
}

func verifyCoverage(records []model.GridCellRecord, rows, cols int) error {
	want := rows * cols
	if len(records) != want {
		return eris.Errorf("stats: expected %d records for a %dx%d grid, got %d", want, rows, cols, len(records))
	}

	seen := make(map[[2]int]bool, want)
	for _, r := range records {
		if r.X < 0 || r.X >= cols || r.Y < 0 || r.Y >= rows {
			return eris.Errorf("stats: coordinate (%d,%d) outside %dx%d grid", r.X, r.Y, rows, cols)
		}
		key := [2]int{r.X, r.Y}
		if seen[key] {
			return eris.Errorf("stats: duplicate coordinate (%d,%d)", r.X, r.Y)
		}
		seen[key] = true
	}
	// Count plus uniqueness plus bounds implies the full Cartesian product.
	return nil
}

func verifyRecord(i int, r model.GridCellRecord) error {
	unitFields := []struct {
		name string
		v    float64
	}{
		{"elevation", r.Elevation},
		{"urban_density", r.UrbanDensity},
		{"vegetation", r.Vegetation},
		{"BLUE", r.Blue},
		{"GREEN", r.Green},
		{"RED", r.Red},
		{"NIR", r.NIR},
		{"SWIR", r.SWIR},
		{"TIRBT", r.TIRBT},
		{"albedo", r.Albedo},
	}
	for _, f := range unitFields {
		if f.v < 0 || f.v > 1 {
			return eris.Errorf("stats: record %d: %s = %g outside [0,1]", i, f.name, f.v)
		}
	}

	indexFields := []struct {
		name   string
		stored float64
		a, b   float64
	}{
		{"NDVI", r.NDVI, r.NIR, r.Red},
		{"NDBI", r.NDBI, r.SWIR, r.NIR},
		{"NDWI", r.NDWI, r.Green, r.NIR},
	}
	for _, f := range indexFields {
		if f.stored < -1 || f.stored > 1 {
			return eris.Errorf("stats: record %d: %s = %g outside [-1,1]", i, f.name, f.stored)
		}
		if want := synth.NormalizedDifference(f.a, f.b); math.Abs(f.stored-want) > FormulaTolerance {
			return eris.Errorf("stats: record %d: %s = %g, recomputed %g", i, f.name, f.stored, want)
		}
	}

	if want := synth.Albedo(r.Blue, r.Green, r.Red, r.NIR, r.SWIR); math.Abs(r.Albedo-want) > FormulaTolerance {
		return eris.Errorf("stats: record %d: albedo = %g, recomputed %g", i, r.Albedo, want)
	}

	return nil
}

func verifyHeatIsland(records []model.GridCellRecord) error {
	if len(records) < 2 {
		return nil
	}

	urban := Column(records, func(r model.GridCellRecord) float64 { return r.UrbanDensity })
	veg := Column(records, func(r model.GridCellRecord) float64 { return r.Vegetation })
	lst := Column(records, func(r model.GridCellRecord) float64 { return r.LST })

	if corr := Pearson(urban, lst); corr <= 0 {
		return eris.Errorf("stats: urban/LST correlation %g is not positive", corr)
	}
	if corr := Pearson(veg, lst); corr >= 0 {
		return eris.Errorf("stats: vegetation/LST correlation %g is not negative", corr)
	}
	return nil
}
