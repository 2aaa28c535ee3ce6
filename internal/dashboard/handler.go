package dashboard

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/madrid-listings/internal/dataset"
	"github.com/sells-group/madrid-listings/internal/filter"
	"github.com/sells-group/madrid-listings/internal/geo"
	"github.com/sells-group/madrid-listings/internal/mapview"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Page holds the texts of the index page.
type Page struct {
	Title    string
	Subtitle string
}

// HandlerConfig configures the HTTP surface.
type HandlerConfig struct {
	Page           Page
	AllowedOrigins []string
}

// Handler serves the dashboard page, the map page and the JSON API.
type Handler struct {
	session *Session
	cfg     HandlerConfig
}

// NewHandler creates a Handler over s.
func NewHandler(s *Session, cfg HandlerConfig) *Handler {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return &Handler{session: s, cfg: cfg}
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Get("/map", h.Map)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/options", h.APIOptions)
		r.Get("/map", h.APIMap)
	})
	return r
}

type indexView struct {
	Page
	Error          string
	Options        Options
	Selected       filter.Selection
	SelectedHoods  map[string]bool
	MapURL         string
	FrameWidth     int
	FrameHeight    int
	MarkerCount    int
	SkippedMarkers int
}

// Index renders the sidebar form and embeds the map for the current
// selection. When the dataset failed to load, the page carries the error
// message and no map.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	view := indexView{Page: h.cfg.Page}

	opts, sel, err := h.selection(r)
	if err != nil {
		view.Error = userMessage(err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		h.writeIndex(w, view)
		return
	}

	m, _, err := h.session.Render(r.Context(), sel)
	if err != nil {
		view.Error = userMessage(err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		h.writeIndex(w, view)
		return
	}

	view.Options = opts
	view.Selected = sel
	view.SelectedHoods = make(map[string]bool, len(sel.Neighbourhoods))
	for _, n := range sel.Neighbourhoods {
		view.SelectedHoods[n] = true
	}
	view.MapURL = "/map?" + selectionQuery(sel).Encode()
	view.FrameWidth = m.Width + 20
	view.FrameHeight = m.Height + 20
	view.MarkerCount = m.MarkerCount()
	view.SkippedMarkers = m.Skipped

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	h.writeIndex(w, view)
}

func (h *Handler) writeIndex(w http.ResponseWriter, view indexView) {
	if err := indexTemplate.Execute(w, view); err != nil {
		zap.L().Error("dashboard: render index", zap.Error(err))
	}
}

// Map serves the standalone Leaflet page for a selection.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	_, sel, err := h.selection(r)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusServiceUnavailable)
		return
	}

	m, cached, err := h.session.Render(r.Context(), sel)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", cacheHeader(cached))
	w.Header().Set("X-Map-ID", m.ID)
	if err := mapview.WriteHTML(w, m); err != nil {
		zap.L().Error("dashboard: write map", zap.Error(err))
	}
}

// APIOptions returns the selectable room types and neighbourhoods.
func (h *Handler) APIOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.session.Options(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, userMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// APIMap returns the MapModel for a selection.
func (h *Handler) APIMap(w http.ResponseWriter, r *http.Request) {
	_, sel, err := h.selection(r)
	if err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, userMessage(err))
		return
	}

	m, cached, err := h.session.Render(r.Context(), sel)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, userMessage(err))
		return
	}
	w.Header().Set("X-Cache", cacheHeader(cached))
	writeJSON(w, http.StatusOK, m)
}

// Health reports liveness. The dataset state is included but does not
// change the status code.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if ds, err := h.session.Dataset(r.Context()); err != nil {
		resp["dataset"] = "unavailable"
	} else {
		resp["dataset"] = "loaded"
		resp["listings"] = len(ds.Joined)
		resp["loaded_at"] = ds.LoadedAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats returns render cache statistics.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.session.CacheStats())
}

// selection reads the room type and neighbourhoods from the query string,
// falling back to the session defaults when they are absent. A submitted
// form ("submitted" present) with no neighbourhoods means none.
func (h *Handler) selection(r *http.Request) (Options, filter.Selection, error) {
	opts, err := h.session.Options(r.Context())
	if err != nil {
		return Options{}, filter.Selection{}, err
	}
	def, err := h.session.DefaultSelection(r.Context())
	if err != nil {
		return Options{}, filter.Selection{}, err
	}

	q := r.URL.Query()
	sel := def
	if rt := q.Get("room_type"); rt != "" {
		sel.RoomType = rt
	}
	if hoods, ok := q["neighbourhood"]; ok || q.Has("submitted") {
		sel.Neighbourhoods = hoods
	}
	return opts, sel, nil
}

func selectionQuery(sel filter.Selection) url.Values {
	q := url.Values{}
	q.Set("room_type", sel.RoomType)
	q.Set("submitted", "1")
	for _, n := range sel.Neighbourhoods {
		q.Add("neighbourhood", n)
	}
	return q
}

func userMessage(err error) string {
	switch {
	case dataset.IsLoadError(err):
		return "No se pudieron cargar los datos: " + err.Error()
	case geo.IsJoinError(err):
		return "No se pudo cruzar pisos y barrios: " + err.Error()
	default:
		return "Error al generar el mapa: " + err.Error()
	}
}

func cacheHeader(cached bool) string {
	if cached {
		return "hit"
	}
	return "miss"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("dashboard: encode response", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
