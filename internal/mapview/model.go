// Package mapview builds the map shown for a selection: neighbourhood
// boundaries plus one marker layer per price band, and renders it as a
// standalone Leaflet page.
package mapview

import (
	"encoding/json"

	"github.com/sells-group/madrid-listings/internal/pricing"
)

// BoundaryLayer is the name of the neighbourhood overlay.
const BoundaryLayer = "Barrios"

// LatLng is a geographic position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is one listing on the map.
type Marker struct {
	ListingID string  `json:"listing_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Popup     string  `json:"popup"`
	Color     string  `json:"color"`
}

// Layer groups the markers of one price band.
type Layer struct {
	Category pricing.Category `json:"-"`
	Name     string           `json:"name"`
	Color    string           `json:"color"`
	Markers  []Marker         `json:"markers"`
}

// MapModel is everything needed to draw the map for one selection.
type MapModel struct {
	ID            string          `json:"id,omitempty"`
	Title         string          `json:"title"`
	Center        LatLng          `json:"center"`
	Zoom          int             `json:"zoom"`
	Width         int             `json:"width"`
	Height        int             `json:"height"`
	TilesURL      string          `json:"tiles_url"`
	Attribution   string          `json:"attribution"`
	BoundaryLayer string          `json:"boundary_layer"`
	Boundaries    json.RawMessage `json:"boundaries"`
	Layers        []Layer         `json:"layers"`
	// Skipped counts rows whose price is outside every band.
	Skipped int `json:"skipped"`
}

// Layer returns the layer for c, or nil when c has no layer.
func (m *MapModel) Layer(c pricing.Category) *Layer {
	for i := range m.Layers {
		if m.Layers[i].Category == c {
			return &m.Layers[i]
		}
	}
	return nil
}

// MarkerCount returns the number of markers across all layers.
func (m *MapModel) MarkerCount() int {
	n := 0
	for _, l := range m.Layers {
		n += len(l.Markers)
	}
	return n
}

// Options sets the map viewport and tile source.
type Options struct {
	Title       string
	Center      LatLng
	Zoom        int
	Width       int
	Height      int
	TilesURL    string
	Attribution string
}

// DefaultOptions returns a 600x600 map centred on Madrid at zoom 12.
func DefaultOptions() Options {
	return Options{
		Title:       "Airbnb - Madrid",
		Center:      LatLng{Lat: 40.4268627127925, Lng: -3.6912505241863776},
		Zoom:        12,
		Width:       600,
		Height:      600,
		TilesURL:    "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "&copy; OpenStreetMap contributors",
	}
}
