// Package export writes the bootstrap distributions to a workbook and the
// per-group summaries to a flat CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"urbanstats/internal/aggregate"
	"urbanstats/internal/bootstrap"
)

// WriteError reports an unwritable output destination. Fatal to the run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// Summary is one durable output row: the bootstrapped mean and median for a
// group, plus the number of locations that fed the bootstrap.
type Summary struct {
	Class  string
	Metric aggregate.Metric
	Region string
	Period string
	N      int
	Mean   float64
	Median float64
}

// Column is one group's bootstrap distribution, keyed for the sheet header.
type Column struct {
	Key  aggregate.Key
	Dist bootstrap.Distribution
}

// Sheet collects the columns of one metric family and size class.
type Sheet struct {
	Name    string
	Columns []Column
}

// WriteWorkbook writes one sheet per entry, one column per bootstrapped
// group, one row per bootstrap draw. Skipped groups simply have no column.
func WriteWorkbook(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return &WriteError{Path: path, Err: err}
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return &WriteError{Path: path, Err: err}
		}

		for j, col := range sheet.Columns {
			name, err := excelize.ColumnNumberToName(j + 1)
			if err != nil {
				return &WriteError{Path: path, Err: err}
			}
			if err := f.SetColWidth(sheet.Name, name, name, 24); err != nil {
				return &WriteError{Path: path, Err: err}
			}
			if err := f.SetCellValue(sheet.Name, fmt.Sprintf("%s1", name), col.Key.String()); err != nil {
				return &WriteError{Path: path, Err: err}
			}
			for row, v := range col.Dist {
				if err := f.SetCellValue(sheet.Name, fmt.Sprintf("%s%d", name, row+2), v); err != nil {
					return &WriteError{Path: path, Err: err}
				}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// summaryHeader is the flat CSV column contract.
var summaryHeader = []string{"size_class", "metric", "region", "period", "n", "mean", "median"}

// WriteSummaryCSV writes the flattened mean/median rows. Exactly one row
// appears per bootstrapped group; the output is byte-identical for
// identical summaries.
func WriteSummaryCSV(path string, rows []Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	for _, row := range rows {
		record := []string{
			row.Class,
			string(row.Metric),
			row.Region,
			row.Period,
			strconv.Itoa(row.N),
			strconv.FormatFloat(row.Mean, 'f', 15, 64),
			strconv.FormatFloat(row.Median, 'f', 15, 64),
		}
		if err := w.Write(record); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
