// Package category maps item categories onto a fixed supermarket route
// order used purely for display grouping.
package category

// Other is the catch-all for uncategorized items; it sorts last.
const Other = "other"

// RouteOrder is the fixed aisle traversal order of a typical supermarket.
var RouteOrder = []string{
	"produce",
	"meat",
	"dairy",
	"bakery",
	"beverages",
	"pantry",
	"household",
	"frozen",
	Other,
}

var routeIndex = buildRouteIndex()

func buildRouteIndex() map[string]int {
	idx := make(map[string]int, len(RouteOrder))
	for i, c := range RouteOrder {
		idx[c] = i
	}
	return idx
}

// Known reports whether c is one of the fixed route categories.
func Known(c string) bool {
	_, ok := routeIndex[c]
	return ok
}

// Coerce maps unknown or empty categories to the catch-all.
func Coerce(c string) string {
	if Known(c) {
		return c
	}
	return Other
}

// Sort filters the fixed route order down to the categories actually
// present, preserving their relative order. Absent categories are omitted
// entirely so no empty sections get rendered.
func Sort(present []string) []string {
	set := make(map[string]bool, len(present))
	for _, c := range present {
		set[Coerce(c)] = true
	}

	var ordered []string
	for _, c := range RouteOrder {
		if set[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// Grouped holds the input positions of all items sharing one category.
type Grouped struct {
	Category string
	Indexes  []int
}

// Group buckets item positions by (coerced) category in route order,
// preserving each category's insertion order.
func Group(categories []string) []Grouped {
	buckets := make(map[string][]int)
	for i, c := range categories {
		key := Coerce(c)
		buckets[key] = append(buckets[key], i)
	}

	var groups []Grouped
	for _, c := range RouteOrder {
		if idxs, ok := buckets[c]; ok {
			groups = append(groups, Grouped{Category: c, Indexes: idxs})
		}
	}
	return groups
}
