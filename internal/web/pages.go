package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/dmitrijs2005/mindjournal/internal/models"
)

//go:embed templates/*.html
var templates embed.FS

type pages struct {
	login     *template.Template
	dashboard *template.Template
}

// dashboardPage is the data of the main page.
type dashboardPage struct {
	User           models.User
	View           controller.View
	ArchiveEnabled bool
}

var funcs = template.FuncMap{
	"longDate": func(s string) string {
		t, err := time.Parse(common.DateLayout, s)
		if err != nil {
			return s
		}
		return t.Format("Monday, January 2, 2006")
	},
	"join": strings.Join,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
}

func mustParsePages() *pages {
	parse := func(page string) *template.Template {
		return template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templates, "templates/layout.html", "templates/"+page))
	}
	return &pages{
		login:     parse("login.html"),
		dashboard: parse("dashboard.html"),
	}
}

// render executes t into a buffer so a template failure never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, t *template.Template, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.log.Error(r.Context(), "template render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
