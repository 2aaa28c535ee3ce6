package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const barriosGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"neighbourhood": "Centro", "neighbourhood_group": "Centro"},
      "geometry": {"type": "Polygon", "coordinates": [[[-3.72, 40.40], [-3.68, 40.40], [-3.68, 40.44], [-3.72, 40.44], [-3.72, 40.40]]]}
    },
    {
      "type": "Feature",
      "properties": {"neighbourhood": "Retiro", "neighbourhood_group": null},
      "geometry": {"type": "MultiPolygon", "coordinates": [[[[-3.68, 40.40], [-3.66, 40.40], [-3.66, 40.44], [-3.68, 40.44], [-3.68, 40.40]]]]}
    }
  ]
}`

func TestDecodeGeoJSON(t *testing.T) {
	hoods, err := DecodeGeoJSON([]byte(barriosGeoJSON))
	require.NoError(t, err)
	require.Len(t, hoods, 2)

	assert.Equal(t, "Centro", hoods[0].Name)
	assert.Equal(t, "Centro", hoods[0].Group)
	assert.Equal(t, 1, hoods[0].Boundary.NumPolygons())
	assert.Equal(t, "Retiro", hoods[1].Name)
	assert.Empty(t, hoods[1].Group)
	assert.Equal(t, 4326, hoods[1].Boundary.SRID())
}

func TestDecodeGeoJSON_AlternateNameKey(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"NOMBRE":"Sol"},` +
		`"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}]}`
	hoods, err := DecodeGeoJSON([]byte(doc))
	require.NoError(t, err)
	require.Len(t, hoods, 1)
	assert.Equal(t, "Sol", hoods[0].Name)
}

func TestDecodeGeoJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{"type":`, "decode feature collection"},
		{
			"missing name",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"id":1},` +
				`"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`,
			"no neighbourhood property",
		},
		{
			"point geometry",
			`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"neighbourhood":"X"},` +
				`"geometry":{"type":"Point","coordinates":[0,0]}}]}`,
			"unsupported geometry type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGeoJSON([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncodeGeoJSON_RoundTripNames(t *testing.T) {
	hoods, err := DecodeGeoJSON([]byte(barriosGeoJSON))
	require.NoError(t, err)

	data, err := EncodeGeoJSON(hoods)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
	assert.Contains(t, string(data), `"neighbourhood":"Retiro"`)

	again, err := DecodeGeoJSON(data)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, hoods[0].Name, again[0].Name)
	assert.Equal(t, hoods[0].Boundary.FlatCoords(), again[0].Boundary.FlatCoords())
}

func TestReadNeighbourhoods_Dispatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neighbourhoods.geojson")
	require.NoError(t, os.WriteFile(path, []byte(barriosGeoJSON), 0o644))

	hoods, err := ReadNeighbourhoods(path)
	require.NoError(t, err)
	assert.Len(t, hoods, 2)

	_, err = ReadNeighbourhoods(filepath.Join(dir, "neighbourhoods.kml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported boundary format")

	_, err = ReadNeighbourhoods(filepath.Join(dir, "missing.geojson"))
	require.Error(t, err)
}
