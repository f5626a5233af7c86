// Package synth generates the synthetic urban-heat-island grid dataset.
//
// Generation is a pure, seeded computation: surface structure first
// (elevation, urban density, vegetation), then reflectance bands as noisy
// linear mixes of the structure, then normalized-difference indices and a
// broadband albedo proxy, and finally land surface temperature driven up
// by built-up area and down by vegetation. A fixed (rows, cols, seed)
// triple always produces the same dataset.
package synth

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"

	"github.com/sells-group/uhi-synth/internal/model"
)

// Urban structure: two Gaussian radial-basis centers on the unit square.
const (
	urbanCenter1X, urbanCenter1Y, urbanCenter1Scale, urbanCenter1Weight = 0.45, 0.55, 0.12, 0.9
	urbanCenter2X, urbanCenter2Y, urbanCenter2Scale, urbanCenter2Weight = 0.75, 0.30, 0.10, 0.7
)

// Noise amplitudes per field.
const (
	urbanNoise = 0.05
	vegNoise   = 0.05
	bandNoise  = 0.1
	tirbtNoise = 0.05
	lstNoise   = 0.8
)

// epsIndex guards the normalized-difference denominators against a
// division by zero when both bands clamp to 0.
const epsIndex = 1e-6

// albedo weights over BLUE, GREEN, RED, NIR, SWIR.
var albedoWeights = [5]float64{0.1, 0.3, 0.3, 0.2, 0.1}

// LST model coefficients (degrees Celsius).
const (
	lstBase        = 26.0
	lstSeasonalAmp = 10.0
	lstElevLapse   = 3.0
	lstUrbanGain   = 8.0
	lstNDBIGain    = 5.0
	lstNDVICool    = 7.0
	lstAlbedoCool  = 2.5
	lstTIRBTGain   = 1.5
)

// Generate synthesizes a rows x cols dataset from the given seed.
// Records are emitted in row-major order, one per grid cell, with X as
// the column index and Y as the row index. It fails before any
// computation if either dimension is not positive.
func Generate(rows, cols int, seed int64) (*model.Dataset, error) {
	if rows <= 0 {
		return nil, eris.Errorf("synth: rows must be positive, got %d", rows)
	}
	if cols <= 0 {
		return nil, eris.Errorf("synth: cols must be positive, got %d", cols)
	}

	rng := rand.New(rand.NewSource(seed))
	n := rows * cols

	// Unit-square cell coordinates. A single row or column collapses to 0,
	// matching linspace over one sample.
	u := make([]float64, n) // along columns
	v := make([]float64, n) // along rows
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			u[i] = unitCoord(c, cols)
			v[i] = unitCoord(r, rows)
		}
	}

	// Topography: tilted plane plus a sinusoidal ripple, min-max normalized.
	elevation := make([]float64, n)
	for i := range elevation {
		elevation[i] = 0.2*v[i] + 0.1*math.Sin(2*math.Pi*u[i])*math.Cos(2*math.Pi*v[i])
	}
	normalize(elevation)

	// Urban density: two RBF bumps plus noise, normalized and clamped.
	urban := make([]float64, n)
	for i := range urban {
		urban[i] = urbanCenter1Weight*rbf(u[i], v[i], urbanCenter1X, urbanCenter1Y, urbanCenter1Scale) +
			urbanCenter2Weight*rbf(u[i], v[i], urbanCenter2X, urbanCenter2Y, urbanCenter2Scale) +
			urbanNoise*rng.NormFloat64()
	}
	normalize(urban)
	clampAll(urban)

	// Vegetation: inverse of urban with a small topographic term.
	veg := make([]float64, n)
	for i := range veg {
		veg[i] = clamp(1-0.8*urban[i]+0.1*(1-elevation[i])+vegNoise*rng.NormFloat64(), 0, 1)
	}

	// Reflectance bands.
	blue := bandField(n, func(int) float64 { return 0.2 }, bandNoise, rng)
	green := bandField(n, func(i int) float64 { return 0.25 + 0.5*veg[i] - 0.1*urban[i] }, bandNoise, rng)
	red := bandField(n, func(i int) float64 { return 0.3 + 0.25*urban[i] - 0.3*veg[i] }, bandNoise, rng)
	nir := bandField(n, func(i int) float64 { return 0.35 + 0.5*veg[i] - 0.15*urban[i] }, bandNoise, rng)
	swir := bandField(n, func(i int) float64 { return 0.4 + 0.4*urban[i] - 0.2*veg[i] }, bandNoise, rng)
	tirbt := bandField(n, func(i int) float64 { return 0.6 + 0.25*urban[i] - 0.1*veg[i] }, tirbtNoise, rng)

	// Seasonal LST base varies with a day of year drawn from the same stream.
	doy := 1 + rng.Intn(365)
	seasonal := SeasonalFactor(doy)

	records := make([]model.GridCellRecord, n)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c

			ndvi := NormalizedDifference(nir[i], red[i])
			ndbi := NormalizedDifference(swir[i], nir[i])
			ndwi := NormalizedDifference(green[i], nir[i])
			albedo := Albedo(blue[i], green[i], red[i], nir[i], swir[i])

			lst := lstBase + lstSeasonalAmp*seasonal - lstElevLapse*elevation[i] +
				lstUrbanGain*urban[i] + lstNDBIGain*ndbi - lstNDVICool*ndvi -
				lstAlbedoCool*albedo + lstTIRBTGain*tirbt[i] +
				lstNoise*rng.NormFloat64()

			records[i] = model.GridCellRecord{
				X:            c,
				Y:            r,
				Elevation:    elevation[i],
				UrbanDensity: urban[i],
				Vegetation:   veg[i],
				Blue:         blue[i],
				Green:        green[i],
				Red:          red[i],
				NIR:          nir[i],
				SWIR:         swir[i],
				TIRBT:        tirbt[i],
				NDVI:         ndvi,
				NDBI:         ndbi,
				NDWI:         ndwi,
				Albedo:       albedo,
				LST:          lst,
			}
		}
	}

	return &model.Dataset{
		Records: records,
		Meta: model.Meta{
			Rows:      rows,
			Cols:      cols,
			Seed:      seed,
			DayOfYear: doy,
			Samples:   n,
		},
	}, nil
}

// NormalizedDifference computes (a-b)/(a+b) with a guarded denominator.
func NormalizedDifference(a, b float64) float64 {
	return (a - b) / (a + b + epsIndex)
}

// Albedo is the broadband albedo proxy: a fixed-weight mix of the five
// reflectance bands, clamped to [0,1].
func Albedo(blue, green, red, nir, swir float64) float64 {
	return clamp(albedoWeights[0]*blue+albedoWeights[1]*green+
		albedoWeights[2]*red+albedoWeights[3]*nir+albedoWeights[4]*swir, 0, 1)
}

// SeasonalFactor maps a day of year to a [0.1, 0.9] seasonal multiplier
// peaking at midsummer.
func SeasonalFactor(doy int) float64 {
	return 0.5 + 0.4*math.Sin(2*math.Pi*(float64(doy)/365.0-0.25))
}

// unitCoord spreads index i over [0,1] across size samples.
func unitCoord(i, size int) float64 {
	if size <= 1 {
		return 0
	}
	return float64(i) / float64(size-1)
}

// rbf is a Gaussian radial basis function centered at (cx, cy).
func rbf(x, y, cx, cy, scale float64) float64 {
	return math.Exp(-((x-cx)*(x-cx) + (y-cy)*(y-cy)) / (2 * scale * scale))
}

// bandField draws one noisy reflectance band clamped to [0,1].
func bandField(n int, base func(i int) float64, noise float64, rng *rand.Rand) []float64 {
	field := make([]float64, n)
	for i := range field {
		field[i] = clamp(base(i)+noise*rng.NormFloat64(), 0, 1)
	}
	return field
}

// normalize rescales a field to [0,1] by its min and max. A flat field
// (single cell, or degenerate span) becomes all zeros.
func normalize(field []float64) {
	lo, hi := field[0], field[0]
	for _, f := range field[1:] {
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	span := hi - lo
	if span == 0 {
		for i := range field {
			field[i] = 0
		}
		return
	}
	for i := range field {
		field[i] = (field[i] - lo) / span
	}
}

func clampAll(field []float64) {
	for i := range field {
		field[i] = clamp(field[i], 0, 1)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
