package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/uhi-synth/internal/model"
)

// GridPlacement pins the synthetic grid onto lon/lat for the geo
// sidecars. Cells are laid out on a plain equirectangular grid from the
// southwest origin; no projection handling is involved.
type GridPlacement struct {
	OriginLon   float64
	OriginLat   float64
	CellSizeDeg float64
}

// DefaultPlacement puts the grid near the equator with roughly 1 km cells.
var DefaultPlacement = GridPlacement{OriginLon: 0, OriginLat: 0, CellSizeDeg: 0.009}

// cellRing returns the closed exterior ring of one cell, wound
// counter-clockwise per GeoJSON.
func (p GridPlacement) cellRing(r model.GridCellRecord) []geom.Coord {
	west := p.OriginLon + float64(r.X)*p.CellSizeDeg
	south := p.OriginLat + float64(r.Y)*p.CellSizeDeg
	east := west + p.CellSizeDeg
	north := south + p.CellSizeDeg

	return []geom.Coord{
		{west, south},
		{east, south},
		{east, north},
		{west, north},
		{west, south},
	}
}

// WriteGeoJSON writes the dataset as a FeatureCollection of cell
// polygons carrying every tabular column as a property.
func WriteGeoJSON(ds *model.Dataset, path string, placement GridPlacement) error {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(ds.Records)),
	}

	for _, r := range ds.Records {
		poly := geom.NewPolygon(geom.XY)
		if _, err := poly.SetCoords([][]geom.Coord{placement.cellRing(r)}); err != nil {
			return eris.Wrapf(err, "export: build cell polygon (%d,%d)", r.X, r.Y)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   poly,
			Properties: cellProperties(r),
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}
	return nil
}

// cellProperties maps a record to GeoJSON feature properties keyed by
// the tabular column names.
func cellProperties(r model.GridCellRecord) map[string]any {
	props := map[string]any{
		"x": r.X,
		"y": r.Y,
	}
	for i, v := range recordFloats(r) {
		props[Columns[i+2]] = v
	}
	return props
}
