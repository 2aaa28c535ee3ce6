package geo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/sells-group/madrid-listings/internal/model"
)

// ReadShapefile reads neighbourhood polygons from an ESRI shapefile. The
// matching .dbf must sit next to the .shp.
func ReadShapefile(path string) ([]model.Neighbourhood, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", path)
	}
	if !hasSibling(path, ".dbf") {
		return nil, eris.Errorf("shapefile: missing .dbf next to %s", path)
	}

	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := firstField(reader, nameKeys)
	if nameIdx < 0 {
		return nil, eris.New("shapefile: no neighbourhood field")
	}
	groupIdx := firstField(reader, groupKeys)

	log := zap.L().With(zap.String("component", "geo.shapefile"))

	var hoods []model.Neighbourhood
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			log.Debug("skipping non-polygon record", zap.Int("record", n))
			continue
		}

		name := attribute(reader, nameIdx)
		if name == "" {
			return nil, eris.Errorf("shapefile: record %d has an empty neighbourhood name", n)
		}
		group := ""
		if groupIdx >= 0 {
			group = attribute(reader, groupIdx)
		}

		h, err := model.NewNeighbourhood(name, group, polygonToMultiPolygon(poly))
		if err != nil {
			return nil, eris.Wrapf(err, "shapefile: record %d", n)
		}
		hoods = append(hoods, h)
	}
	if err := reader.Err(); err != nil {
		return nil, eris.Wrap(err, "shapefile: read records")
	}
	return hoods, nil
}

// polygonToMultiPolygon groups shapefile rings into polygons. Outer rings are
// clockwise; each counter-clockwise ring is a hole in the preceding outer
// ring.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	var flat []float64
	var ends []int

	flush := func() {
		if len(ends) == 0 {
			return
		}
		if err := mp.Push(geom.NewPolygonFlat(geom.XY, flat, ends)); err != nil {
			zap.L().Debug("shapefile: skipping malformed polygon", zap.Error(err))
		}
		flat, ends = nil, nil
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		ring := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			ring = append(ring, p.Points[j].X, p.Points[j].Y)
		}

		isHole := xy.IsRingCounterClockwise(geom.XY, ring)
		if !isHole || len(ends) == 0 {
			flush()
		}
		flat = append(flat, ring...)
		ends = append(ends, len(flat))
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// hasSibling reports whether a file with the same base name and extension
// ext (either case) exists next to path.
func hasSibling(path, ext string) bool {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, e := range []string{strings.ToLower(ext), strings.ToUpper(ext)} {
		if _, err := os.Stat(base + e); err == nil {
			return true
		}
	}
	return false
}

func firstField(reader *shp.Reader, names []string) int {
	fields := reader.Fields()
	for _, name := range names {
		for i, f := range fields {
			if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
				return i
			}
		}
	}
	return -1
}

func attribute(reader *shp.Reader, idx int) string {
	return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
}
