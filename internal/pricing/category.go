// Package pricing buckets nightly listing prices into the fixed price bands
// shown on the map.
package pricing

// Category is a price band. The zero value is Uncategorized, the state of a
// row that has not been through Categorize.
type Category int

// Price bands in ascending order. Uncategorized and OutOfRange are not map
// layers.
const (
	Uncategorized Category = iota
	VeryCheap
	Cheap
	MidRange
	Expensive
	VeryExpensive
	OutOfRange
)

// Band edges in euros.
const (
	cheapFloor         = 50.0
	midRangeFloor      = 100.0
	expensiveFloor     = 200.0
	veryExpensiveFloor = 1000.0
	ceiling            = 10000.0
)

var labels = [...]string{
	Uncategorized: "",
	VeryCheap:     "Muy Baratos",
	Cheap:         "Baratos",
	MidRange:      "Precio medio",
	Expensive:     "Caros",
	VeryExpensive: "Muy Caros",
	OutOfRange:    "Precio fuera de rango",
}

var colors = [...]string{
	Uncategorized: "gray",
	VeryCheap:     "blue",
	Cheap:         "green",
	MidRange:      "orange",
	Expensive:     "red",
	VeryExpensive: "darkred",
	OutOfRange:    "gray",
}

// Categorize maps a price to its band. Ranges are half-open except the
// VeryExpensive band, which includes its upper bound of 10000. Negative
// prices, prices above 10000 and NaN are OutOfRange.
func Categorize(price float64) Category {
	switch {
	case price >= 0 && price < cheapFloor:
		return VeryCheap
	case price >= cheapFloor && price < midRangeFloor:
		return Cheap
	case price >= midRangeFloor && price < expensiveFloor:
		return MidRange
	case price >= expensiveFloor && price < veryExpensiveFloor:
		return Expensive
	case price >= veryExpensiveFloor && price <= ceiling:
		return VeryExpensive
	default:
		return OutOfRange
	}
}

// Categories returns the five in-range bands, cheapest first.
func Categories() []Category {
	return []Category{VeryCheap, Cheap, MidRange, Expensive, VeryExpensive}
}

// String returns the band label, empty for Uncategorized.
func (c Category) String() string {
	if c < Uncategorized || c > OutOfRange {
		return labels[OutOfRange]
	}
	return labels[c]
}

// Color returns the marker colour for the band.
func (c Category) Color() string {
	if c < Uncategorized || c > OutOfRange {
		return colors[OutOfRange]
	}
	return colors[c]
}

// InRange reports whether the band has a map layer.
func (c Category) InRange() bool {
	return c >= VeryCheap && c < OutOfRange
}

// MarshalText encodes the band as its label.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
