package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/xdg/cmdbind/internal/clog"
	"github.com/xdg/cmdbind/internal/result"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"humanizeBytes": humanize.Bytes,
	"duration":      formatDuration,
}

var templates = template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html"))

// formatDuration rounds d for display: milliseconds below a minute,
// seconds above.
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return d.Round(time.Second).String()
	}
	return d.Round(time.Millisecond).String()
}

// writeResult renders res as the response page. Every invocation outcome,
// failures included, is a 200: the page itself carries the error.
func writeResult(w http.ResponseWriter, res result.Result) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "result.html", res); err != nil {
		clog.Error("render %s: %v", res.SectionName, err)
		http.Error(w, "failed to render result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
