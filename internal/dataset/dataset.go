// Package dataset loads the listings table and the neighbourhood boundaries
// and joins them into the working set the dashboard filters.
package dataset

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sells-group/madrid-listings/internal/model"
)

// Dataset is the joined, read-only snapshot for one session.
type Dataset struct {
	Neighbourhoods []model.Neighbourhood
	Joined         []model.JoinedListing
	// Dropped counts parsed listings that fell outside every neighbourhood.
	Dropped int
	// Skipped counts listing rows that could not be parsed.
	Skipped  int
	LoadedAt time.Time
}

// RoomTypes returns the distinct room types of the joined listings in
// first-seen order.
func (d *Dataset) RoomTypes() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, j := range d.Joined {
		if _, ok := seen[j.RoomType]; ok {
			continue
		}
		seen[j.RoomType] = struct{}{}
		out = append(out, j.RoomType)
	}
	return out
}

// NeighbourhoodNames returns the distinct neighbourhoods that hold at least
// one joined listing, in Spanish collation order.
func (d *Dataset) NeighbourhoodNames() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, j := range d.Joined {
		if _, ok := seen[j.Neighbourhood]; ok {
			continue
		}
		seen[j.Neighbourhood] = struct{}{}
		out = append(out, j.Neighbourhood)
	}
	collate.New(language.Spanish).SortStrings(out)
	return out
}
