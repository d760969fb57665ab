package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadError reports a fatal failure while reading the input table: missing
// file, malformed row, or a required column absent from the header.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// Columns returns the required input header, in canonical column order.
// Column names are the collaborator contract with the upstream data
// preparation; the loader matches them by name, not by position.
func Columns() []string {
	cols := []string{"UrbanAgglomeration", "Country", "Region", "OID"}
	for _, d := range Decades {
		cols = append(cols, fmt.Sprintf("Pop%d", d))
	}
	for _, iv := range Intervals {
		cols = append(cols, "PopChange"+iv)
	}
	for _, d := range Decades {
		cols = append(cols, fmt.Sprintf("Area%d", d))
	}
	for _, iv := range Intervals {
		cols = append(cols, "AreaExpansion"+iv)
	}
	for _, d := range Decades {
		cols = append(cols, fmt.Sprintf("Density%d", d))
	}
	return cols
}

// Load reads the CSV at path into Records. Every column named by Columns
// must be present in the header; extra columns are ignored. Empty numeric
// cells become missing values, any other unparsable cell fails the load.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("reading header: %w", err)}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range Columns() {
		if _, ok := index[col]; !ok {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("missing required column %q", col)}
		}
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("line %d: %w", line, err)}
		}

		rec := Record{
			Location:      strings.TrimSpace(row[index["UrbanAgglomeration"]]),
			Country:       strings.TrimSpace(row[index["Country"]]),
			Region:        strings.TrimSpace(row[index["Region"]]),
			OID:           strings.TrimSpace(row[index["OID"]]),
			Population:    make(map[int]float64, len(Decades)),
			PopChange:     make(map[string]float64, len(Intervals)),
			Area:          make(map[int]float64, len(Decades)),
			AreaExpansion: make(map[string]float64, len(Intervals)),
			Density:       make(map[int]float64, len(Decades)),
		}

		cell := func(col string) (float64, bool, error) {
			s := strings.TrimSpace(row[index[col]])
			if s == "" {
				return 0, false, nil
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, false, fmt.Errorf("line %d, column %s: %w", line, col, err)
			}
			return v, true, nil
		}

		decadeFields := []struct {
			prefix string
			dest   map[int]float64
		}{
			{"Pop", rec.Population},
			{"Area", rec.Area},
			{"Density", rec.Density},
		}
		for _, field := range decadeFields {
			for _, d := range Decades {
				v, ok, err := cell(fmt.Sprintf("%s%d", field.prefix, d))
				if err != nil {
					return nil, &LoadError{Path: path, Err: err}
				}
				if ok {
					field.dest[d] = v
				}
			}
		}

		intervalFields := []struct {
			prefix string
			dest   map[string]float64
		}{
			{"PopChange", rec.PopChange},
			{"AreaExpansion", rec.AreaExpansion},
		}
		for _, field := range intervalFields {
			for _, iv := range Intervals {
				v, ok, err := cell(field.prefix + iv)
				if err != nil {
					return nil, &LoadError{Path: path, Err: err}
				}
				if ok {
					field.dest[iv] = v
				}
			}
		}

		records = append(records, rec)
	}

	return records, nil
}
