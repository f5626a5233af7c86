package synth_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/stats"
	"github.com/sells-group/uhi-synth/internal/synth"
)

func TestGenerate_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"zero rows", 0, 40},
		{"zero cols", 40, 0},
		{"negative rows", -1, 40},
		{"negative cols", 40, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := synth.Generate(tt.rows, tt.cols, 42)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be positive")
		})
	}
}

func TestGenerate_Determinism(t *testing.T) {
	a, err := synth.Generate(12, 9, 42)
	require.NoError(t, err)
	b, err := synth.Generate(12, 9, 42)
	require.NoError(t, err)

	require.Equal(t, a.Meta, b.Meta)
	require.Equal(t, a.Records, b.Records)
}

func TestGenerate_TinyGridScenario(t *testing.T) {
	ds, err := synth.Generate(2, 2, 0)
	require.NoError(t, err)
	require.Len(t, ds.Records, 4)

	coords := make(map[[2]int]bool)
	for _, r := range ds.Records {
		coords[[2]int{r.X, r.Y}] = true
	}
	assert.Equal(t, map[[2]int]bool{
		{0, 0}: true, {1, 0}: true, {0, 1}: true, {1, 1}: true,
	}, coords)

	// Identical arguments reproduce the records exactly.
	again, err := synth.Generate(2, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, ds.Records, again.Records)
}

func TestGenerate_SingleCell(t *testing.T) {
	ds, err := synth.Generate(1, 1, 42)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	r := ds.Records[0]
	assert.Zero(t, r.X)
	assert.Zero(t, r.Y)
	// Grid-wide normalization of a single cell collapses to zero.
	assert.Zero(t, r.Elevation)
	assert.Zero(t, r.UrbanDensity)
}

func TestGenerate_SeedChangesOutput(t *testing.T) {
	a, err := synth.Generate(2, 2, 0)
	require.NoError(t, err)
	b, err := synth.Generate(2, 2, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a.Records, b.Records)
}

func TestGenerate_CoverageRowMajor(t *testing.T) {
	const rows, cols = 5, 7
	ds, err := synth.Generate(rows, cols, 3)
	require.NoError(t, err)
	require.Len(t, ds.Records, rows*cols)
	assert.Equal(t, rows*cols, ds.Meta.Samples)

	for i, r := range ds.Records {
		assert.Equal(t, i/cols, r.Y, "row index at record %d", i)
		assert.Equal(t, i%cols, r.X, "col index at record %d", i)
	}
}

func TestGenerate_RangeInvariants(t *testing.T) {
	ds, err := synth.Generate(40, 40, 42)
	require.NoError(t, err)

	for i, r := range ds.Records {
		for name, v := range map[string]float64{
			"elevation":     r.Elevation,
			"urban_density": r.UrbanDensity,
			"vegetation":    r.Vegetation,
			"BLUE":          r.Blue,
			"GREEN":         r.Green,
			"RED":           r.Red,
			"NIR":           r.NIR,
			"SWIR":          r.SWIR,
			"TIRBT":         r.TIRBT,
			"albedo":        r.Albedo,
		} {
			require.GreaterOrEqual(t, v, 0.0, "%s at record %d", name, i)
			require.LessOrEqual(t, v, 1.0, "%s at record %d", name, i)
		}
		for name, v := range map[string]float64{
			"NDVI": r.NDVI, "NDBI": r.NDBI, "NDWI": r.NDWI,
		} {
			require.GreaterOrEqual(t, v, -1.0, "%s at record %d", name, i)
			require.LessOrEqual(t, v, 1.0, "%s at record %d", name, i)
		}
	}
}

func TestGenerate_FormulaConsistency(t *testing.T) {
	ds, err := synth.Generate(20, 20, 7)
	require.NoError(t, err)

	for i, r := range ds.Records {
		require.InDelta(t, synth.NormalizedDifference(r.NIR, r.Red), r.NDVI, 1e-12, "NDVI at record %d", i)
		require.InDelta(t, synth.NormalizedDifference(r.SWIR, r.NIR), r.NDBI, 1e-12, "NDBI at record %d", i)
		require.InDelta(t, synth.NormalizedDifference(r.Green, r.NIR), r.NDWI, 1e-12, "NDWI at record %d", i)
		require.InDelta(t, synth.Albedo(r.Blue, r.Green, r.Red, r.NIR, r.SWIR), r.Albedo, 1e-12, "albedo at record %d", i)
	}
}

func TestGenerate_HeatIslandCorrelation(t *testing.T) {
	ds, err := synth.Generate(40, 40, 42)
	require.NoError(t, err)

	urban := stats.Column(ds.Records, func(r model.GridCellRecord) float64 { return r.UrbanDensity })
	veg := stats.Column(ds.Records, func(r model.GridCellRecord) float64 { return r.Vegetation })
	lst := stats.Column(ds.Records, func(r model.GridCellRecord) float64 { return r.LST })

	assert.Positive(t, stats.Pearson(urban, lst), "urban density should warm the surface")
	assert.Negative(t, stats.Pearson(veg, lst), "vegetation should cool the surface")
}

func TestSeasonalFactor_Bounds(t *testing.T) {
	for doy := 1; doy <= 365; doy++ {
		f := synth.SeasonalFactor(doy)
		require.GreaterOrEqual(t, f, 0.1-1e-12, "doy %d", doy)
		require.LessOrEqual(t, f, 0.9+1e-12, "doy %d", doy)
	}
	// Peak lands at the implied mid-year maximum.
	assert.InDelta(t, 0.9, synth.SeasonalFactor(183), 1e-3)
}

func TestNormalizedDifference_NearZeroBands(t *testing.T) {
	assert.Equal(t, 0.0, synth.NormalizedDifference(0, 0))
	assert.False(t, math.IsNaN(synth.NormalizedDifference(1e-9, 1e-9)))
	assert.InDelta(t, 1.0, synth.NormalizedDifference(1, 0), 1e-5)
}
