package model

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Neighbourhood is a named administrative area of the city.
type Neighbourhood struct {
	Name     string             `json:"neighbourhood"`
	Group    string             `json:"neighbourhood_group,omitempty"`
	Boundary *geom.MultiPolygon `json:"-"`
}

// NewNeighbourhood normalises a polygon or multipolygon boundary to a
// MultiPolygon tagged with SRID.
func NewNeighbourhood(name, group string, g geom.T) (Neighbourhood, error) {
	mp, err := AsMultiPolygon(g)
	if err != nil {
		return Neighbourhood{}, eris.Wrapf(err, "model: neighbourhood %q", name)
	}
	return Neighbourhood{Name: name, Group: group, Boundary: mp}, nil
}

// AsMultiPolygon converts a Polygon or MultiPolygon to a MultiPolygon with
// SRID set. Other geometry types are rejected.
func AsMultiPolygon(g geom.T) (*geom.MultiPolygon, error) {
	switch v := g.(type) {
	case *geom.MultiPolygon:
		if v == nil {
			return nil, eris.New("nil multipolygon")
		}
		return v.SetSRID(SRID), nil
	case *geom.Polygon:
		if v == nil {
			return nil, eris.New("nil polygon")
		}
		mp := geom.NewMultiPolygon(v.Layout())
		if err := mp.Push(v); err != nil {
			return nil, eris.Wrap(err, "push polygon")
		}
		return mp.SetSRID(SRID), nil
	case nil:
		return nil, eris.New("missing geometry")
	default:
		return nil, eris.Errorf("unsupported geometry type %T", g)
	}
}
