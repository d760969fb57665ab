// Package dataset loads the pre-processed urban land-expansion table and
// defines the categorical dimensions (region, decade, size class) the rest
// of the pipeline groups by.
package dataset

// Decades covered by the input table, ascending.
var Decades = []int{1970, 1980, 1990, 2000, 2010}

// Intervals are the four decade-intervals between adjacent decades. Rate
// columns (population change, urban expansion) are keyed by interval.
var Intervals = []string{"1970-1980", "1980-1990", "1990-2000", "2000-2010"}

// RegionOrder is the prescribed display order of regions. Chart legends and
// workbook columns follow this order; records whose region is not listed
// here are excluded from every grouping.
var RegionOrder = []string{
	"N Am",
	"CS Am",
	"Europe",
	"Africa",
	"SW Asia",
	"SC Asia",
	"India",
	"China",
	"E Asia",
	"SE Asia",
}

// RegionLabels maps region keys to the labels shown on chart axes.
var RegionLabels = map[string]string{
	"N Am":    "North America",
	"CS Am":   "Latin America",
	"Europe":  "Europe",
	"Africa":  "Africa",
	"SW Asia": "Southwest Asia",
	"SC Asia": "Central-South Asia",
	"India":   "India",
	"China":   "China",
	"E Asia":  "East Asia",
	"SE Asia": "Southeast Asia",
}

// SizeClass buckets agglomerations by their 2010 population.
type SizeClass string

const (
	ClassAll   SizeClass = "all"
	ClassAbove SizeClass = "above"
	ClassBelow SizeClass = "below"
)

// SizeClasses in output order.
var SizeClasses = []SizeClass{ClassAll, ClassAbove, ClassBelow}

// classThreshold splits ClassAbove from ClassBelow on the 2010 population
// column, in thousands of people (2 million).
const classThreshold = 2000.0

// Record is one study row of the input table. Numeric fields use absent map
// keys for missing cells. Records are never mutated after load.
type Record struct {
	Location string
	Country  string
	Region   string
	OID      string

	// Population in thousands, by decade.
	Population map[int]float64
	// PopChange is the population change rate in percent, by interval.
	PopChange map[string]float64
	// Area is the estimated urban area in km2, by decade.
	Area map[int]float64
	// AreaExpansion is the urban area expansion rate in percent, by interval.
	AreaExpansion map[string]float64
	// Density in people per km2, by decade.
	Density map[int]float64
}

// InClass reports whether the record belongs to the given size class. A
// record with no 2010 population belongs only to ClassAll.
func (r Record) InClass(class SizeClass) bool {
	switch class {
	case ClassAbove:
		pop, ok := r.Population[2010]
		return ok && pop > classThreshold
	case ClassBelow:
		pop, ok := r.Population[2010]
		return ok && pop <= classThreshold
	default:
		return true
	}
}
