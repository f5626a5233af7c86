package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/uhi-synth/internal/model"
)

// sheetName is the single worksheet holding the dataset.
const sheetName = "dataset"

// WriteXLSX writes the dataset as a single-sheet workbook with the same
// column layout and values as the CSV output.
func WriteXLSX(ds *model.Dataset, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}

	for _, r := range ds.Records {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.X)
		row.AddCell().SetInt(r.Y)
		for _, v := range recordFloats(r) {
			row.AddCell().SetFloat(v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save xlsx")
	}
	return nil
}
