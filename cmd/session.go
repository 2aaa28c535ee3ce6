package main

import (
	"golang.org/x/time/rate"

	"github.com/sells-group/madrid-listings/internal/config"
	"github.com/sells-group/madrid-listings/internal/dashboard"
	"github.com/sells-group/madrid-listings/internal/dataset"
	"github.com/sells-group/madrid-listings/internal/fetcher"
	"github.com/sells-group/madrid-listings/internal/mapview"
	"github.com/sells-group/madrid-listings/internal/resilience"
)

// appEnv bundles the session with the resources it holds.
type appEnv struct {
	Session *dashboard.Session
	Opener  *fetcher.Opener
}

// Close removes downloaded source files.
func (e *appEnv) Close() {
	e.Opener.Cleanup()
}

// newAppEnv wires config into an opener, a loader and a session.
func newAppEnv(c *config.Config) *appEnv {
	retry := resilience.DefaultPolicy()
	retry.MaxAttempts = c.Data.MaxRetries + 1

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:   "madrid-listings/1.0",
		Timeout:     c.Data.HTTPTimeout(),
		RatePerHost: rate.Limit(c.Data.RatePerSecond),
		Retry:       retry,
	})
	opener := fetcher.NewOpener(httpFetcher, fetcher.NewFTPFetcher(c.Data.HTTPTimeout()), c.Data.TempDir)
	loader := dataset.NewLoader(c.Data.Listings, c.Data.Neighbourhoods, opener)

	session := dashboard.NewSession(loader, dashboard.SessionConfig{
		Map:                   mapOptions(c.Map, c.UI),
		DefaultNeighbourhoods: c.UI.DefaultNeighbourhoods,
		Cache:                 mapview.NewRenderCache(c.Cache.MaxEntries, c.Cache.TTL()),
	})
	return &appEnv{Session: session, Opener: opener}
}

func mapOptions(m config.MapConfig, ui config.UIConfig) mapview.Options {
	opts := mapview.DefaultOptions()
	if ui.Title != "" {
		opts.Title = ui.Title
	}
	opts.Center = mapview.LatLng{Lat: m.CenterLat, Lng: m.CenterLng}
	if m.Zoom > 0 {
		opts.Zoom = m.Zoom
	}
	if m.Width > 0 {
		opts.Width = m.Width
	}
	if m.Height > 0 {
		opts.Height = m.Height
	}
	if m.TilesURL != "" {
		opts.TilesURL = m.TilesURL
	}
	if m.Attribution != "" {
		opts.Attribution = m.Attribution
	}
	return opts
}
