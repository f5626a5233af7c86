package model

import "time"

// RunStatus represents the current state of a generation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// GenerationRun is one recorded invocation of the synthesizer.
type GenerationRun struct {
	ID        string      `json:"id"`
	Rows      int         `json:"rows"`
	Cols      int         `json:"cols"`
	Seed      int64       `json:"seed"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunSummary holds the outcome of a completed run: where the artifacts
// landed and the aggregate statistics that characterise the dataset.
type RunSummary struct {
	DayOfYear     int     `json:"doy"`
	Samples       int     `json:"n_samples"`
	CSVPath       string  `json:"csv_path,omitempty"`
	XLSXPath      string  `json:"xlsx_path,omitempty"`
	GeoJSONPath   string  `json:"geojson_path,omitempty"`
	ShapefilePath string  `json:"shapefile_path,omitempty"`
	CSVSHA256     string  `json:"csv_sha256,omitempty"`
	UrbanLSTCorr  float64 `json:"urban_lst_corr"`
	VegLSTCorr    float64 `json:"veg_lst_corr"`
	LSTMean       float64 `json:"lst_mean"`
	LSTMin        float64 `json:"lst_min"`
	LSTMax        float64 `json:"lst_max"`
}
