package geo

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/madrid-listings/internal/model"
	"github.com/sells-group/madrid-listings/internal/pricing"
)

const (
	madridLat = 40.4268627127925
	madridLng = -3.6912505241863776
)

func TestJoin_InnerJoin(t *testing.T) {
	hoods := []model.Neighbourhood{
		hood(t, "Centro", square(-3.72, 40.40, -3.68, 40.44)),
		hood(t, "Retiro", square(-3.68, 40.40, -3.66, 40.44)),
	}
	listings := []model.Listing{
		model.NewListing("1", madridLat, madridLng, "Entire home/apt", 75),
		model.NewListing("2", 40.41, -3.67, "Private room", 30),
		model.NewListing("3", 41.38, 2.17, "Private room", 40), // Barcelona
	}

	got, err := Join(listings, hoods)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Centro", got[0].Neighbourhood)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "Retiro", got[1].Neighbourhood)

	// Price bands are assigned after filtering, not by the join.
	for _, row := range got {
		assert.Equal(t, pricing.Uncategorized, row.Category, row.ID)
	}
}

func TestJoin_OverlapPicksSmallestName(t *testing.T) {
	hoods := []model.Neighbourhood{
		hood(t, "Sol", square(0, 0, 10, 10)),
		hood(t, "Cortes", square(5, 5, 15, 15)),
		hood(t, "Palacio", square(0, 0, 10, 10)),
	}
	listings := []model.Listing{
		model.NewListing("overlap-all", 7, 7, "Private room", 30),
		model.NewListing("sol-palacio", 2, 2, "Private room", 30),
	}

	got, err := Join(listings, hoods)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cortes", got[0].Neighbourhood)
	assert.Equal(t, "Palacio", got[1].Neighbourhood)
}

func TestJoin_Idempotent(t *testing.T) {
	hoods := []model.Neighbourhood{
		hood(t, "B", square(0, 0, 10, 10)),
		hood(t, "A", square(5, 5, 15, 15)),
	}
	var listings []model.Listing
	for i := 0; i < 20; i++ {
		listings = append(listings, model.NewListing("", float64(i), float64(i), "Private room", float64(i*10)))
	}

	first, err := Join(listings, hoods)
	require.NoError(t, err)
	second, err := Join(listings, hoods)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 16)
}

func TestJoin_Errors(t *testing.T) {
	open := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 1, 1, 0, 1, 0, 0.5}, []int{10})
	short := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 1, 0, 0, 0}, []int{6})

	tests := []struct {
		name  string
		hoods []model.Neighbourhood
		want  string
	}{
		{"empty set", nil, "no neighbourhoods"},
		{"nil boundary", []model.Neighbourhood{{Name: "Vacío"}}, `invalid boundary for "Vacío"`},
		{"open ring", []model.Neighbourhood{hood(t, "Abierto", open)}, "ring is not closed"},
		{"short ring", []model.Neighbourhood{hood(t, "Corto", short)}, "fewer than 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := []model.Listing{model.NewListing("1", 0.5, 0.5, "Private room", 30)}
			_, err := Join(listings, tt.hoods)
			require.Error(t, err)
			assert.True(t, IsJoinError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestIsJoinError_Wrapped(t *testing.T) {
	err := eris.Wrap(&JoinError{Reason: "no neighbourhoods"}, "load")
	assert.True(t, IsJoinError(err))
	assert.False(t, IsJoinError(eris.New("other")))
}
