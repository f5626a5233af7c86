package export

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/uhi-synth/internal/model"
)

// shapefileFields defines the DBF attribute table. DBF limits field
// names to 10 characters, so the two long column names are shortened.
var shapefileFields = []shp.Field{
	shp.NumberField("X", 10),
	shp.NumberField("Y", 10),
	shp.FloatField("ELEVATION", 19, 10),
	shp.FloatField("URBAN", 19, 10),
	shp.FloatField("VEG", 19, 10),
	shp.FloatField("BLUE", 19, 10),
	shp.FloatField("GREEN", 19, 10),
	shp.FloatField("RED", 19, 10),
	shp.FloatField("NIR", 19, 10),
	shp.FloatField("SWIR", 19, 10),
	shp.FloatField("TIRBT", 19, 10),
	shp.FloatField("NDVI", 19, 10),
	shp.FloatField("NDBI", 19, 10),
	shp.FloatField("NDWI", 19, 10),
	shp.FloatField("ALBEDO", 19, 10),
	shp.FloatField("LST", 19, 10),
}

// WriteShapefile writes the dataset as a polygon shapefile, one square
// per grid cell, attributes mirroring the tabular columns.
func WriteShapefile(ds *model.Dataset, path string, placement GridPlacement) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrap(err, "export: create shapefile")
	}

	if err := w.SetFields(shapefileFields); err != nil {
		w.Close()
		return eris.Wrap(err, "export: set shapefile fields")
	}

	for i, r := range ds.Records {
		w.Write((*shp.Polygon)(shp.NewPolyLine([][]shp.Point{cellRingPoints(placement, r)})))

		values := make([]any, 0, len(shapefileFields))
		values = append(values, r.X, r.Y)
		for _, v := range recordFloats(r) {
			values = append(values, v)
		}
		for col, v := range values {
			if err := w.WriteAttribute(i, col, v); err != nil {
				w.Close()
				return eris.Wrapf(err, "export: write shapefile attribute row %d col %d", i, col)
			}
		}
	}
	w.Close()

	// go-shp names the attribute table without the dot, which orphans it
	// from the .shp; move it to the extension readers expect.
	base := strings.TrimSuffix(path, ".shp")
	if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
		return eris.Wrap(err, "export: rename shapefile attribute table")
	}
	return nil
}

// cellRingPoints returns the cell's closed exterior ring wound clockwise,
// as the shapefile spec requires for outer rings.
func cellRingPoints(p GridPlacement, r model.GridCellRecord) []shp.Point {
	ring := p.cellRing(r)
	points := make([]shp.Point, len(ring))
	for i, c := range ring {
		// reverse the counter-clockwise GeoJSON winding
		points[len(ring)-1-i] = shp.Point{X: c[0], Y: c[1]}
	}
	return points
}
