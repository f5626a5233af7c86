// Package model defines the dataset and run types shared across the CLI.
package model

// GridCellRecord is one synthesized cell of the satellite-like grid.
// X is the column index and Y the row index, both 0-based. Reflectance
// bands and the derived surface fields live on [0,1]; the normalized
// difference indices on [-1,1]; LST is degrees Celsius.
type GridCellRecord struct {
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Elevation    float64 `json:"elevation"`
	UrbanDensity float64 `json:"urban_density"`
	Vegetation   float64 `json:"vegetation"`
	Blue         float64 `json:"BLUE"`
	Green        float64 `json:"GREEN"`
	Red          float64 `json:"RED"`
	NIR          float64 `json:"NIR"`
	SWIR         float64 `json:"SWIR"`
	TIRBT        float64 `json:"TIRBT"`
	NDVI         float64 `json:"NDVI"`
	NDBI         float64 `json:"NDBI"`
	NDWI         float64 `json:"NDWI"`
	Albedo       float64 `json:"albedo"`
	LST          float64 `json:"LST"`
}

// Meta describes how a dataset was generated.
type Meta struct {
	Rows      int   `json:"rows"`
	Cols      int   `json:"cols"`
	Seed      int64 `json:"seed"`
	DayOfYear int   `json:"doy"`
	Samples   int   `json:"n_samples"`
}

// Dataset is one complete synthesis result: the records in row-major
// order plus the generation parameters.
type Dataset struct {
	Records []GridCellRecord `json:"records"`
	Meta    Meta             `json:"meta"`
}
