// Package filter selects the joined listings shown on the map.
package filter

import (
	"sort"
	"strings"

	"github.com/sells-group/madrid-listings/internal/model"
)

// Selection is the user's current choice: one room type and any number of
// neighbourhoods.
type Selection struct {
	RoomType       string   `json:"room_type"`
	Neighbourhoods []string `json:"neighbourhoods"`
}

// Normalize returns a copy with neighbourhoods sorted and de-duplicated.
func (s Selection) Normalize() Selection {
	out := Selection{RoomType: s.RoomType}
	if len(s.Neighbourhoods) == 0 {
		return out
	}
	names := make([]string, len(s.Neighbourhoods))
	copy(names, s.Neighbourhoods)
	sort.Strings(names)

	out.Neighbourhoods = names[:0]
	for i, n := range names {
		if i > 0 && n == names[i-1] {
			continue
		}
		out.Neighbourhoods = append(out.Neighbourhoods, n)
	}
	return out
}

// Key identifies the selection independent of neighbourhood order and
// duplicates.
func (s Selection) Key() string {
	n := s.Normalize()
	var b strings.Builder
	b.WriteString(n.RoomType)
	for _, name := range n.Neighbourhoods {
		b.WriteByte(0)
		b.WriteString(name)
	}
	return b.String()
}

// Apply keeps the rows whose room type equals sel.RoomType and whose
// neighbourhood is in sel.Neighbourhoods. An empty neighbourhood set selects
// nothing. Input order is preserved and rows are not modified.
func Apply(rows []model.JoinedListing, sel Selection) []model.JoinedListing {
	if len(sel.Neighbourhoods) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(sel.Neighbourhoods))
	for _, n := range sel.Neighbourhoods {
		want[n] = struct{}{}
	}

	var out []model.JoinedListing
	for _, r := range rows {
		if r.RoomType != sel.RoomType {
			continue
		}
		if _, ok := want[r.Neighbourhood]; ok {
			out = append(out, r)
		}
	}
	return out
}
