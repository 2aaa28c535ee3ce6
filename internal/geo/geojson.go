package geo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/madrid-listings/internal/model"
)

// Attribute names tried, in order, for the neighbourhood name and group.
// Shapefile DBF names are truncated to 10 characters.
var (
	nameKeys  = []string{"neighbourhood", "neighbourhood_name", "neighbourh", "name", "nombre"}
	groupKeys = []string{"neighbourhood_group", "neighbou_1", "district", "distrito"}
)

// ReadGeoJSON reads a GeoJSON FeatureCollection of neighbourhood polygons.
func ReadGeoJSON(path string) ([]model.Neighbourhood, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "geojson: read file")
	}
	return DecodeGeoJSON(data)
}

// DecodeGeoJSON parses a FeatureCollection. Every feature needs a polygon or
// multipolygon geometry and a neighbourhood name property.
func DecodeGeoJSON(data []byte) ([]model.Neighbourhood, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geojson: decode feature collection")
	}

	hoods := make([]model.Neighbourhood, 0, len(fc.Features))
	for i, f := range fc.Features {
		name, ok := property(f.Properties, nameKeys)
		if !ok {
			return nil, eris.Errorf("geojson: feature %d has no neighbourhood property", i)
		}
		group, _ := property(f.Properties, groupKeys)

		n, err := model.NewNeighbourhood(name, group, f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "geojson: feature %d", i)
		}
		hoods = append(hoods, n)
	}
	return hoods, nil
}

// EncodeGeoJSON writes the boundaries as a FeatureCollection with a
// "neighbourhood" property on each feature.
func EncodeGeoJSON(hoods []model.Neighbourhood) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(hoods))}
	for _, h := range hoods {
		props := map[string]interface{}{"neighbourhood": h.Name}
		if h.Group != "" {
			props["neighbourhood_group"] = h.Group
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   h.Boundary,
			Properties: props,
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "geojson: encode feature collection")
	}
	return data, nil
}

func property(props map[string]interface{}, keys []string) (string, bool) {
	for _, k := range keys {
		for pk, v := range props {
			if !strings.EqualFold(pk, k) || v == nil {
				continue
			}
			s := strings.TrimSpace(fmt.Sprint(v))
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}
