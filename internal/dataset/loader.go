package dataset

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/madrid-listings/internal/fetcher"
	"github.com/sells-group/madrid-listings/internal/geo"
	"github.com/sells-group/madrid-listings/internal/model"
)

// Localizer resolves a source location to a readable local file.
type Localizer interface {
	Localize(ctx context.Context, location string, exts ...string) (string, error)
}

// Loader reads both sources and joins them.
type Loader struct {
	Listings       string
	Neighbourhoods string
	Opener         Localizer
}

// NewLoader creates a Loader for the given listings and neighbourhood
// locations.
func NewLoader(listings, neighbourhoods string, opener Localizer) *Loader {
	return &Loader{Listings: listings, Neighbourhoods: neighbourhoods, Opener: opener}
}

// Load reads the listings table and the neighbourhood collection
// concurrently, then joins them. Source failures are returned as
// *LoadError; join failures as *geo.JoinError.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	log := zap.L().With(zap.String("component", "dataset.loader"))
	start := time.Now()

	var (
		listings []model.Listing
		skipped  int
		hoods    []model.Neighbourhood
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		listings, skipped, err = l.loadListings(gctx)
		if err != nil {
			return &LoadError{Source: l.Listings, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		hoods, err = l.loadNeighbourhoods(gctx)
		if err != nil {
			return &LoadError{Source: l.Neighbourhoods, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}

	joined, err := geo.Join(listings, hoods)
	if err != nil {
		log.Error("spatial join failed", zap.Error(err))
		return nil, err
	}

	ds := &Dataset{
		Neighbourhoods: hoods,
		Joined:         joined,
		Dropped:        len(listings) - len(joined),
		Skipped:        skipped,
		LoadedAt:       time.Now(),
	}
	log.Info("dataset loaded",
		zap.Int("listings", len(listings)),
		zap.Int("neighbourhoods", len(hoods)),
		zap.Int("joined", len(joined)),
		zap.Int("dropped", ds.Dropped),
		zap.Int("skipped", skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

func (l *Loader) loadListings(ctx context.Context) ([]model.Listing, int, error) {
	path, err := l.Opener.Localize(ctx, l.Listings, ListingExts...)
	if err != nil {
		return nil, 0, err
	}
	tbl, err := fetcher.ReadTable(ctx, path)
	if err != nil {
		return nil, 0, err
	}
	return ParseListings(tbl)
}

func (l *Loader) loadNeighbourhoods(ctx context.Context) ([]model.Neighbourhood, error) {
	path, err := l.Opener.Localize(ctx, l.Neighbourhoods, geo.BoundaryExts...)
	if err != nil {
		return nil, err
	}
	return geo.ReadNeighbourhoods(path)
}
