package geo

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// Contains reports whether c lies inside mp. Points on an exterior ring or
// on a hole's ring count as contained; points strictly inside a hole do not.
func Contains(mp *geom.MultiPolygon, c geom.Coord) bool {
	if mp == nil || mp.Empty() {
		return false
	}
	if !mp.Bounds().OverlapsPoint(mp.Layout(), c) {
		return false
	}

	for i := 0; i < mp.NumPolygons(); i++ {
		if polygonContains(mp.Polygon(i), c) {
			return true
		}
	}
	return false
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	layout := p.Layout()

	if xy.LocatePointInRing(layout, c, p.LinearRing(0).FlatCoords()) == location.Exterior {
		return false
	}
	for j := 1; j < p.NumLinearRings(); j++ {
		if xy.LocatePointInRing(layout, c, p.LinearRing(j).FlatCoords()) == location.Interior {
			return false
		}
	}
	return true
}

// validateBoundary checks every ring has at least four coordinates and is
// closed.
func validateBoundary(mp *geom.MultiPolygon) error {
	if mp == nil || mp.NumPolygons() == 0 {
		return errEmptyBoundary
	}
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		if p.NumLinearRings() == 0 {
			return errEmptyBoundary
		}
		for j := 0; j < p.NumLinearRings(); j++ {
			ring := p.LinearRing(j)
			n := ring.NumCoords()
			if n < 4 {
				return errShortRing
			}
			first, last := ring.Coord(0), ring.Coord(n-1)
			if first.X() != last.X() || first.Y() != last.Y() {
				return errOpenRing
			}
		}
	}
	return nil
}
