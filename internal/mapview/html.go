package mapview

import (
	"embed"
	"html/template"
	"io"

	"github.com/rotisserie/eris"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// WriteHTML writes m as a self-contained Leaflet page. The output depends
// only on the model's content, not its ID, so equal maps produce identical
// bytes.
func WriteHTML(w io.Writer, m *MapModel) error {
	if m == nil {
		return eris.New("mapview: nil map model")
	}
	view := *m
	view.ID = ""

	if err := mapTemplate.Execute(w, &view); err != nil {
		return eris.Wrap(err, "mapview: execute template")
	}
	return nil
}
