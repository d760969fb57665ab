// Package aggregate partitions the loaded table into (region, size class,
// period) groups and collapses duplicate studies of the same location into
// one value per location.
package aggregate

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"urbanstats/internal/dataset"
)

// Metric selects the measurement column family and, with it, the grouping
// scheme: the two rate metrics group by decade-interval, density by decade.
type Metric string

const (
	UrbanExpansion Metric = "urban_expansion_rate"
	PopChange      Metric = "population_change_rate"
	PopDensity     Metric = "population_density"
)

// Periods returns the grouping periods for the metric, ascending.
func (m Metric) Periods() []string {
	if m == PopDensity {
		periods := make([]string, len(dataset.Decades))
		for i, d := range dataset.Decades {
			periods[i] = strconv.Itoa(d)
		}
		return periods
	}
	return dataset.Intervals
}

// value extracts the metric's measurement for one period from a record.
// Density is reported in thousands of people per km2, matching the scale
// used on the charts and in the exports.
func (m Metric) value(r dataset.Record, period string) (float64, bool) {
	switch m {
	case UrbanExpansion:
		v, ok := r.AreaExpansion[period]
		return v, ok
	case PopChange:
		v, ok := r.PopChange[period]
		return v, ok
	case PopDensity:
		year, err := strconv.Atoi(period)
		if err != nil {
			return 0, false
		}
		v, ok := r.Density[year]
		return v / 1000, ok
	}
	return 0, false
}

// Key identifies one cohort of records. Groups partition the record set:
// per scheme, every record value belongs to exactly one key.
type Key struct {
	Region string
	Class  dataset.SizeClass
	Period string
}

// String renders the key as a workbook column header.
func (k Key) String() string {
	return strings.ReplaceAll(k.Region, " ", "_") + "_" + string(k.Class) + "_" + k.Period
}

// Group holds the location-averaged values for one key.
type Group struct {
	Key Key
	// Values has one entry per location with at least one measurement,
	// in first-seen input order.
	Values []float64
}

// Count returns the number of contributing locations.
func (g Group) Count() int { return len(g.Values) }

// Mean of the location-averaged values, without bootstrapping. Used for the
// direct plot markers.
func (g Group) Mean() float64 { return stat.Mean(g.Values, nil) }

// Groups partitions the records of one size class by region and period.
// Records sharing a location name within a group are collapsed to the mean
// of their non-missing values, so each location contributes exactly one
// value. Output order is region list order, then period ascending; keys
// with no values produce no group. Identical input yields identical output.
func Groups(records []dataset.Record, class dataset.SizeClass, metric Metric) []Group {
	var groups []Group
	for _, region := range dataset.RegionOrder {
		for _, period := range metric.Periods() {
			var order []string
			sums := make(map[string]float64)
			counts := make(map[string]int)
			for _, r := range records {
				if r.Region != region || !r.InClass(class) {
					continue
				}
				v, ok := metric.value(r, period)
				if !ok {
					continue
				}
				if counts[r.Location] == 0 {
					order = append(order, r.Location)
				}
				sums[r.Location] += v
				counts[r.Location]++
			}
			if len(order) == 0 {
				continue
			}
			values := make([]float64, len(order))
			for i, loc := range order {
				values[i] = sums[loc] / float64(counts[loc])
			}
			groups = append(groups, Group{
				Key:    Key{Region: region, Class: class, Period: period},
				Values: values,
			})
		}
	}
	return groups
}
