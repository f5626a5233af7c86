package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/uhi-synth/internal/model"
)

// DefaultBaseName matches the historical output file naming.
const DefaultBaseName = "synthetic_uhi_dataset"

// Options selects the optional sidecar artifacts.
type Options struct {
	GeoJSON   bool
	Shapefile bool
	Placement GridPlacement
}

// Artifacts lists the files one export produced.
type Artifacts struct {
	CSVPath       string
	XLSXPath      string
	GeoJSONPath   string
	ShapefilePath string
	ManifestPath  string
	CSVSHA256     string
}

// Run writes all artifacts for a dataset under outDir, creating the
// directory if needed. The CSV and XLSX tables are always written, in
// parallel; sidecars follow per opts, and the manifest is written last.
// A failure in either principal table fails the whole export.
func Run(ds *model.Dataset, outDir, baseName string, opts Options) (*Artifacts, error) {
	if baseName == "" {
		baseName = DefaultBaseName
	}
	if opts.Placement == (GridPlacement{}) {
		opts.Placement = DefaultPlacement
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create output dir %s", outDir)
	}

	arts := &Artifacts{
		CSVPath:  filepath.Join(outDir, baseName+".csv"),
		XLSXPath: filepath.Join(outDir, baseName+".xlsx"),
	}

	var g errgroup.Group
	g.Go(func() error {
		sum, err := WriteCSV(ds, arts.CSVPath)
		arts.CSVSHA256 = sum
		return err
	})
	g.Go(func() error {
		return WriteXLSX(ds, arts.XLSXPath)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.GeoJSON {
		arts.GeoJSONPath = filepath.Join(outDir, baseName+".geojson")
		if err := WriteGeoJSON(ds, arts.GeoJSONPath, opts.Placement); err != nil {
			return nil, err
		}
	}
	if opts.Shapefile {
		arts.ShapefilePath = filepath.Join(outDir, baseName+".shp")
		if err := WriteShapefile(ds, arts.ShapefilePath, opts.Placement); err != nil {
			return nil, err
		}
	}

	arts.ManifestPath = filepath.Join(outDir, baseName+".manifest.yaml")
	manifest := Manifest{
		GeneratedAt: time.Now().UTC(),
		Rows:        ds.Meta.Rows,
		Cols:        ds.Meta.Cols,
		Seed:        ds.Meta.Seed,
		DayOfYear:   ds.Meta.DayOfYear,
		Samples:     ds.Meta.Samples,
		CSV:         arts.CSVPath,
		CSVSHA256:   arts.CSVSHA256,
		XLSX:        arts.XLSXPath,
		GeoJSON:     arts.GeoJSONPath,
		Shapefile:   arts.ShapefilePath,
	}
	if err := writeManifest(manifest, arts.ManifestPath); err != nil {
		return nil, err
	}

	return arts, nil
}
