package export

import (
	"strconv"

	"github.com/sells-group/uhi-synth/internal/model"
)

// Columns is the ordered output header shared by every tabular format.
var Columns = []string{
	"x", "y",
	"elevation", "urban_density", "vegetation",
	"BLUE", "GREEN", "RED", "NIR", "SWIR", "TIRBT",
	"NDVI", "NDBI", "NDWI",
	"albedo", "LST",
}

// recordFloats returns the float-valued columns of a record in Columns
// order, i.e. everything after x and y.
func recordFloats(r model.GridCellRecord) []float64 {
	return []float64{
		r.Elevation, r.UrbanDensity, r.Vegetation,
		r.Blue, r.Green, r.Red, r.NIR, r.SWIR, r.TIRBT,
		r.NDVI, r.NDBI, r.NDWI,
		r.Albedo, r.LST,
	}
}

// buildRow renders one record as CSV cells. Floats use the shortest
// representation that round-trips, so re-parsing reproduces the exact
// generated values.
func buildRow(r model.GridCellRecord) []string {
	row := make([]string, 0, len(Columns))
	row = append(row, strconv.Itoa(r.X), strconv.Itoa(r.Y))
	for _, v := range recordFloats(r) {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return row
}
