// Package export writes a synthesized dataset to its output artifacts:
// the CSV and XLSX tables, optional GeoJSON and shapefile sidecars, and
// a YAML manifest describing the run.
package export

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/uhi-synth/internal/model"
)

// WriteCSV writes the dataset as a header-plus-rows CSV file,
// overwriting any existing file at path. It returns the hex SHA-256 of
// the written bytes.
func WriteCSV(ds *model.Dataset, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "export: create csv")
	}
	defer f.Close()

	h := sha256.New()
	w := csv.NewWriter(io.MultiWriter(f, h))

	if err := w.Write(Columns); err != nil {
		return "", eris.Wrap(err, "export: write csv header")
	}
	for _, r := range ds.Records {
		if err := w.Write(buildRow(r)); err != nil {
			return "", eris.Wrap(err, "export: write csv row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "export: flush csv")
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrap(err, "export: close csv")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
