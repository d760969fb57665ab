package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"urbanstats/internal/aggregate"
	"urbanstats/internal/bootstrap"
	"urbanstats/internal/dataset"
)

func TestWriteSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	rows := []Summary{
		{Class: "all", Metric: aggregate.UrbanExpansion, Region: "Africa", Period: "1970-1980", N: 12, Mean: 4.25, Median: 4.1},
		{Class: "above", Metric: aggregate.PopDensity, Region: "China", Period: "1990", N: 3, Mean: 11.5, Median: 11},
	}

	require.NoError(t, WriteSummaryCSV(path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"size_class", "metric", "region", "period", "n", "mean", "median"}, got[0])
	assert.Equal(t, []string{"all", "urban_expansion_rate", "Africa", "1970-1980", "12", "4.250000000000000", "4.100000000000000"}, got[1])
	assert.Equal(t, "population_density", got[2][1])
}

func TestWriteSummaryCSVDeterministic(t *testing.T) {
	dir := t.TempDir()
	rows := []Summary{
		{Class: "all", Metric: aggregate.UrbanExpansion, Region: "Africa", Period: "1970-1980", N: 2, Mean: 1.0 / 3.0, Median: 0.25},
	}

	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	require.NoError(t, WriteSummaryCSV(first, rows))
	require.NoError(t, WriteSummaryCSV(second, rows))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteSummaryCSVUnwritable(t *testing.T) {
	err := WriteSummaryCSV(filepath.Join(t.TempDir(), "missing", "summary.csv"), nil)
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bstrap.xlsx")
	key := aggregate.Key{Region: "Africa", Class: dataset.ClassAll, Period: "1970-1980"}
	dist := make(bootstrap.Distribution, 1000)
	for i := range dist {
		dist[i] = float64(i)
	}

	sheets := []Sheet{
		{Name: "UER_all", Columns: []Column{{Key: key, Dist: dist}}},
		{Name: "PD_all"},
	}
	require.NoError(t, WriteWorkbook(path, sheets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"UER_all", "PD_all"}, f.GetSheetList())

	header, err := f.GetCellValue("UER_all", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Africa_all_1970-1980", header)

	rows, err := f.GetRows("UER_all")
	require.NoError(t, err)
	assert.Len(t, rows, 1001) // header + one row per bootstrap draw

	last, err := f.GetCellValue("UER_all", "A1001")
	require.NoError(t, err)
	assert.Equal(t, "999", last)
}

func TestWriteWorkbookUnwritable(t *testing.T) {
	err := WriteWorkbook(filepath.Join(t.TempDir(), "missing", "bstrap.xlsx"), []Sheet{{Name: "UER_all"}})
	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}
