package geo

import (
	"errors"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/madrid-listings/internal/model"
)

var (
	errEmptyBoundary = eris.New("empty boundary")
	errShortRing     = eris.New("ring has fewer than 4 coordinates")
	errOpenRing      = eris.New("ring is not closed")
)

// JoinError reports that the spatial join could not run because the
// neighbourhood set is empty or a boundary is invalid.
type JoinError struct {
	Reason string
	Err    error
}

func (e *JoinError) Error() string {
	if e.Err == nil {
		return "spatial join: " + e.Reason
	}
	return "spatial join: " + e.Reason + ": " + e.Err.Error()
}

func (e *JoinError) Unwrap() error {
	return e.Err
}

// IsJoinError reports whether err is or wraps a *JoinError.
func IsJoinError(err error) bool {
	var je *JoinError
	return errors.As(err, &je)
}

// Join assigns each listing to the neighbourhood whose boundary contains its
// point. Listings outside every boundary are dropped. When boundaries
// overlap, the neighbourhood with the lexicographically smallest name wins.
// Output order follows the input listings.
func Join(listings []model.Listing, hoods []model.Neighbourhood) ([]model.JoinedListing, error) {
	if len(hoods) == 0 {
		return nil, &JoinError{Reason: "no neighbourhoods"}
	}
	for _, h := range hoods {
		if err := validateBoundary(h.Boundary); err != nil {
			return nil, &JoinError{Reason: "invalid boundary for " + strconv.Quote(h.Name), Err: err}
		}
	}

	ordered := make([]model.Neighbourhood, len(hoods))
	copy(ordered, hoods)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	joined := make([]model.JoinedListing, 0, len(listings))
	for _, l := range listings {
		c := l.Coord()
		for _, h := range ordered {
			if Contains(h.Boundary, c) {
				joined = append(joined, model.JoinedListing{Listing: l, Neighbourhood: h.Name})
				break
			}
		}
	}

	zap.L().Debug("geo: spatial join",
		zap.Int("listings", len(listings)),
		zap.Int("joined", len(joined)),
		zap.Int("dropped", len(listings)-len(joined)),
	)
	return joined, nil
}
