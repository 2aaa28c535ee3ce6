// Package model defines the listing and neighbourhood records shared by the
// loader, the spatial join and the map renderer.
package model

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/madrid-listings/internal/pricing"
)

// SRID is the spatial reference of every geometry in the dataset (WGS 84
// geographic coordinates).
const SRID = 4326

// Listing is one rental entry parsed from the listings table.
type Listing struct {
	ID        string      `json:"id"`
	Latitude  float64     `json:"latitude"`
	Longitude float64     `json:"longitude"`
	RoomType  string      `json:"room_type"`
	Price     float64     `json:"price"`
	Point     *geom.Point `json:"-"`
}

// NewListing builds a Listing whose point geometry is derived from its
// longitude and latitude.
func NewListing(id string, lat, lng float64, roomType string, price float64) Listing {
	return Listing{
		ID:        id,
		Latitude:  lat,
		Longitude: lng,
		RoomType:  roomType,
		Price:     price,
		Point:     geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(SRID),
	}
}

// Coord returns the listing position in x/y (longitude/latitude) order.
func (l Listing) Coord() geom.Coord {
	return geom.Coord{l.Longitude, l.Latitude}
}

// JoinedListing is a Listing placed inside a neighbourhood. Category stays
// pricing.Uncategorized until Categorized runs after filtering.
type JoinedListing struct {
	Listing
	Neighbourhood string           `json:"neighbourhood"`
	Category      pricing.Category `json:"category,omitempty"`
}

// Categorized returns a copy of the row with its price band set.
func (j JoinedListing) Categorized() JoinedListing {
	j.Category = pricing.Categorize(j.Price)
	return j
}
