// Package dashboard holds the per-process session state and the HTTP
// handlers of the listings dashboard.
package dashboard

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/madrid-listings/internal/dataset"
	"github.com/sells-group/madrid-listings/internal/filter"
	"github.com/sells-group/madrid-listings/internal/mapview"
)

// Loader produces the joined dataset.
type Loader interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Default neighbourhood selection modes.
const (
	SelectNone = "none"
	SelectAll  = "all"
)

// SessionConfig tunes a Session.
type SessionConfig struct {
	Map mapview.Options
	// DefaultNeighbourhoods is SelectNone or SelectAll.
	DefaultNeighbourhoods string
	Cache                 *mapview.RenderCache
}

// Options are the values offered by the selection controls.
type Options struct {
	RoomTypes      []string `json:"room_types"`
	Neighbourhoods []string `json:"neighbourhoods"`
}

// Session owns the loaded dataset and the render cache for the lifetime of
// the process. The dataset is loaded once on first use; a failed load is
// kept and returned to every later caller.
type Session struct {
	loader Loader
	cfg    SessionConfig
	cache  *mapview.RenderCache

	once sync.Once
	ds   *dataset.Dataset
	err  error
}

// NewSession creates a Session. A nil cache keeps only the last render.
func NewSession(loader Loader, cfg SessionConfig) *Session {
	if cfg.Cache == nil {
		cfg.Cache = mapview.NewRenderCache(1, 0)
	}
	if cfg.DefaultNeighbourhoods == "" {
		cfg.DefaultNeighbourhoods = SelectNone
	}
	return &Session{loader: loader, cfg: cfg, cache: cfg.Cache}
}

// Dataset loads the dataset on first call and returns the cached result
// afterwards. The load is not cancelled when the first caller's context is.
func (s *Session) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	s.once.Do(func() {
		s.ds, s.err = s.loader.Load(context.WithoutCancel(ctx))
		if s.err != nil {
			zap.L().Error("dashboard: dataset unavailable", zap.Error(s.err))
		}
	})
	return s.ds, s.err
}

// Options returns the distinct room types and neighbourhoods of the joined
// dataset.
func (s *Session) Options(ctx context.Context) (Options, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return Options{}, err
	}
	return Options{RoomTypes: ds.RoomTypes(), Neighbourhoods: ds.NeighbourhoodNames()}, nil
}

// DefaultSelection is the first room type plus either no neighbourhoods or
// all of them, depending on configuration.
func (s *Session) DefaultSelection(ctx context.Context) (filter.Selection, error) {
	opts, err := s.Options(ctx)
	if err != nil {
		return filter.Selection{}, err
	}
	var sel filter.Selection
	if len(opts.RoomTypes) > 0 {
		sel.RoomType = opts.RoomTypes[0]
	}
	if s.cfg.DefaultNeighbourhoods == SelectAll {
		sel.Neighbourhoods = opts.Neighbourhoods
	}
	return sel, nil
}

// Render filters, categorizes and renders the selection. Repeating a
// selection, in any neighbourhood order, returns the cached map; cached
// reports whether that happened.
func (s *Session) Render(ctx context.Context, sel filter.Selection) (m *mapview.MapModel, cached bool, err error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, false, err
	}

	key := sel.Key()
	if hit, ok := s.cache.Get(key); ok {
		return hit, true, nil
	}

	rows := filter.Apply(ds.Joined, sel)
	m, err = mapview.Render(ds.Neighbourhoods, rows, s.cfg.Map)
	if err != nil {
		return nil, false, err
	}
	s.cache.Put(key, m)

	zap.L().Debug("dashboard: rendered map",
		zap.String("map_id", m.ID),
		zap.String("room_type", sel.RoomType),
		zap.Int("neighbourhoods", len(sel.Neighbourhoods)),
		zap.Int("markers", m.MarkerCount()),
		zap.Int("skipped", m.Skipped),
	)
	return m, false, nil
}

// CacheStats reports render cache statistics.
func (s *Session) CacheStats() mapview.CacheStats {
	return s.cache.Stats()
}
