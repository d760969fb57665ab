package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	return path
}

// row expands a name→value map into a full-width CSV row in column order.
func row(cells map[string]string) []string {
	cols := Columns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = cells[c]
	}
	return out
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, [][]string{
		Columns(),
		row(map[string]string{
			"UrbanAgglomeration":     "Lagos",
			"Country":                "Nigeria",
			"Region":                 "Africa",
			"OID":                    "17",
			"Pop1970":                "1414",
			"Pop2010":                "10788",
			"PopChange1970-1980":     "7.6",
			"Area1990":               "430.5",
			"AreaExpansion1970-1980": "5.2",
			"Density1970":            "9100",
		}),
		row(map[string]string{
			"UrbanAgglomeration": "Toledo",
			"Country":            "United States",
			"Region":             "N Am",
			"OID":                "204",
			"Pop2010":            "608",
		}),
	})

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	lagos := records[0]
	assert.Equal(t, "Lagos", lagos.Location)
	assert.Equal(t, "Africa", lagos.Region)
	assert.Equal(t, 1414.0, lagos.Population[1970])
	assert.Equal(t, 7.6, lagos.PopChange["1970-1980"])
	assert.Equal(t, 430.5, lagos.Area[1990])
	assert.Equal(t, 5.2, lagos.AreaExpansion["1970-1980"])
	assert.Equal(t, 9100.0, lagos.Density[1970])

	// Empty cells stay missing.
	_, ok := lagos.Population[1980]
	assert.False(t, ok)
	_, ok = records[1].Density[1970]
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadMissingColumn(t *testing.T) {
	var header []string
	for _, c := range Columns() {
		if c != "Region" {
			header = append(header, c)
		}
	}
	path := writeCSV(t, [][]string{header})

	_, err := Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "Region")
}

func TestLoadMalformedCell(t *testing.T) {
	path := writeCSV(t, [][]string{
		Columns(),
		row(map[string]string{
			"UrbanAgglomeration": "Lagos",
			"Region":             "Africa",
			"Pop1970":            "not-a-number",
		}),
	})

	_, err := Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "Pop1970")
}

func TestLoadShortRow(t *testing.T) {
	path := writeCSV(t, [][]string{
		Columns(),
		{"Lagos", "Nigeria", "Africa"},
	})

	_, err := Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestInClass(t *testing.T) {
	tests := []struct {
		name    string
		pop2010 map[int]float64
		class   SizeClass
		want    bool
	}{
		{"above threshold", map[int]float64{2010: 2500}, ClassAbove, true},
		{"at threshold counts below", map[int]float64{2010: 2000}, ClassAbove, false},
		{"at threshold counts below 2", map[int]float64{2010: 2000}, ClassBelow, true},
		{"small city below", map[int]float64{2010: 300}, ClassBelow, true},
		{"small city not above", map[int]float64{2010: 300}, ClassAbove, false},
		{"missing population only in all", nil, ClassAbove, false},
		{"missing population only in all 2", nil, ClassBelow, false},
		{"everything in all", nil, ClassAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{Population: tt.pop2010}
			assert.Equal(t, tt.want, r.InClass(tt.class))
		})
	}
}

func TestColumnsShape(t *testing.T) {
	cols := Columns()
	// 4 identity columns + 3 decade families x 5 + 2 interval families x 4.
	assert.Len(t, cols, 4+3*5+2*4)
	assert.Equal(t, "UrbanAgglomeration", cols[0])
}

func TestRegionOrderHasLabels(t *testing.T) {
	for _, region := range RegionOrder {
		_, ok := RegionLabels[region]
		assert.True(t, ok, "region %q has no label", region)
	}
}
