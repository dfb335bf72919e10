package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/starford/clusterscope/internal/models"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"categoryLabel": func(c string) string {
		if c == models.CategoryAll {
			return "All Subreddits"
		}
		return "r/" + c
	},
	"dateValue": func(ts models.Timestamp) string {
		if !ts.Valid {
			return ""
		}
		return ts.Time.Format("2006-01-02")
	},
}).ParseFS(templatesFS, "templates/index.html"))

type pageData struct {
	Stats   models.Stats
	Options models.FilterOptionSet
	Live    bool
}

// Page handles GET /, the dashboard itself. Chart data is fetched by the
// page from /api/figure.
func (h *Handler) Page(live bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		snap := h.svc.Snapshot()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, pageData{Stats: snap.Stats, Options: snap.Options, Live: live}); err != nil {
			slog.Error("render page failed", slog.String("error", err.Error()))
		}
	}
}
