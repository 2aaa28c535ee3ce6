package mapview

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/madrid-listings/internal/geo"
	"github.com/sells-group/madrid-listings/internal/model"
	"github.com/sells-group/madrid-listings/internal/pricing"
)

// Render builds the map for the filtered rows. All neighbourhood boundaries
// are drawn regardless of the selection. Each row is placed in the layer of
// its price band; rows outside every band are counted in Skipped. The five
// layers are always present, cheapest first.
func Render(hoods []model.Neighbourhood, rows []model.JoinedListing, opts Options) (*MapModel, error) {
	boundaries, err := geo.EncodeGeoJSON(hoods)
	if err != nil {
		return nil, eris.Wrap(err, "mapview: encode boundaries")
	}

	m := &MapModel{
		ID:            uuid.NewString(),
		Title:         opts.Title,
		Center:        opts.Center,
		Zoom:          opts.Zoom,
		Width:         opts.Width,
		Height:        opts.Height,
		TilesURL:      opts.TilesURL,
		Attribution:   opts.Attribution,
		BoundaryLayer: BoundaryLayer,
		Boundaries:    boundaries,
	}
	for _, c := range pricing.Categories() {
		m.Layers = append(m.Layers, Layer{
			Category: c,
			Name:     c.String(),
			Color:    c.Color(),
			Markers:  []Marker{},
		})
	}

	for _, row := range rows {
		row = row.Categorized()
		if !row.Category.InRange() {
			m.Skipped++
			continue
		}
		layer := m.Layer(row.Category)
		layer.Markers = append(layer.Markers, Marker{
			ListingID: row.ID,
			Lat:       row.Latitude,
			Lng:       row.Longitude,
			Popup:     Popup(row),
			Color:     row.Category.Color(),
		})
	}
	return m, nil
}

// Popup formats the marker text, e.g. "Entire home/apt - Baratos - 75€".
func Popup(row model.JoinedListing) string {
	return fmt.Sprintf("%s - %s - %s€", row.RoomType, pricing.Categorize(row.Price), strconv.FormatFloat(row.Price, 'f', -1, 64))
}
