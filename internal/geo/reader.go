// Package geo reads neighbourhood boundaries and places listing points
// inside them.
package geo

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/madrid-listings/internal/model"
)

// BoundaryExts are the file extensions ReadNeighbourhoods understands.
var BoundaryExts = []string{".geojson", ".json", ".shp"}

// ReadNeighbourhoods reads a neighbourhood collection, choosing the format
// from the file extension.
func ReadNeighbourhoods(path string) ([]model.Neighbourhood, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return ReadGeoJSON(path)
	case ".shp":
		return ReadShapefile(path)
	default:
		return nil, eris.Errorf("geo: unsupported boundary format %q", filepath.Ext(path))
	}
}
