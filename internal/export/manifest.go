package export

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML sidecar describing one export: the generation
// parameters and the artifacts written for them.
type Manifest struct {
	GeneratedAt time.Time `yaml:"generated_at"`
	Rows        int       `yaml:"rows"`
	Cols        int       `yaml:"cols"`
	Seed        int64     `yaml:"seed"`
	DayOfYear   int       `yaml:"doy"`
	Samples     int       `yaml:"n_samples"`
	CSV         string    `yaml:"csv"`
	CSVSHA256   string    `yaml:"csv_sha256"`
	XLSX        string    `yaml:"xlsx"`
	GeoJSON     string    `yaml:"geojson,omitempty"`
	Shapefile   string    `yaml:"shapefile,omitempty"`
}

// writeManifest marshals the manifest to path.
func writeManifest(m Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "export: marshal manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "export: write manifest")
	}
	return nil
}

// ReadManifest loads a manifest written by a previous export.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "export: unmarshal manifest")
	}
	return &m, nil
}
