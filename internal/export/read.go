package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/uhi-synth/internal/model"
)

// ReadCSV parses a dataset CSV written by WriteCSV back into records,
// validating the header against the canonical column order.
func ReadCSV(path string) ([]model.GridCellRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "export: read csv")
	}
	if len(rows) == 0 {
		return nil, eris.New("export: csv is empty")
	}

	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]model.GridCellRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, eris.Wrapf(err, "export: csv row %d", i+1)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadXLSX parses the dataset sheet of a workbook written by WriteXLSX.
func ReadXLSX(path string) ([]model.GridCellRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: open xlsx")
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("export: sheet %q not found", sheetName)
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("export: xlsx is empty")
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = cell.String()
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	records := make([]model.GridCellRecord, 0, len(sheet.Rows)-1)
	for i, row := range sheet.Rows[1:] {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rec, err := parseRow(cells)
		if err != nil {
			return nil, eris.Wrapf(err, "export: xlsx row %d", i+1)
		}
		records = append(records, rec)
	}
	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(Columns) {
		return eris.Errorf("export: expected %d columns, got %d", len(Columns), len(header))
	}
	for i, col := range Columns {
		if header[i] != col {
			return eris.Errorf("export: column %d is %q, expected %q", i, header[i], col)
		}
	}
	return nil
}

func parseRow(row []string) (model.GridCellRecord, error) {
	var rec model.GridCellRecord
	if len(row) != len(Columns) {
		return rec, eris.Errorf("expected %d cells, got %d", len(Columns), len(row))
	}

	x, err := strconv.Atoi(row[0])
	if err != nil {
		return rec, eris.Wrap(err, "parse x")
	}
	y, err := strconv.Atoi(row[1])
	if err != nil {
		return rec, eris.Wrap(err, "parse y")
	}
	rec.X, rec.Y = x, y

	floats := make([]float64, len(row)-2)
	for i, cell := range row[2:] {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return rec, eris.Wrapf(err, "parse %s", Columns[i+2])
		}
		floats[i] = v
	}

	rec.Elevation, rec.UrbanDensity, rec.Vegetation = floats[0], floats[1], floats[2]
	rec.Blue, rec.Green, rec.Red = floats[3], floats[4], floats[5]
	rec.NIR, rec.SWIR, rec.TIRBT = floats[6], floats[7], floats[8]
	rec.NDVI, rec.NDBI, rec.NDWI = floats[9], floats[10], floats[11]
	rec.Albedo, rec.LST = floats[12], floats[13]
	return rec, nil
}
