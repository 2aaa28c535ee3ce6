package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/madrid-listings/internal/model"
)

// squareFlat returns a closed counter-clockwise ring.
func squareFlat(minX, minY, maxX, maxY float64) []float64 {
	return []float64{minX, minY, maxX, minY, maxX, maxY, minX, maxY, minX, minY}
}

func square(minX, minY, maxX, maxY float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, squareFlat(minX, minY, maxX, maxY), []int{10})
}

func hood(t *testing.T, name string, polys ...*geom.Polygon) model.Neighbourhood {
	t.Helper()
	mp := geom.NewMultiPolygon(geom.XY)
	for _, p := range polys {
		require.NoError(t, mp.Push(p))
	}
	n, err := model.NewNeighbourhood(name, "", mp)
	require.NoError(t, err)
	return n
}
