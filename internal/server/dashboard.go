package server

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/analysis"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/report"
	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/store"
)

var listTemplate = template.Must(template.New("list").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Experiments</title>
</head>
<body>
<h1>Experiments</h1>
{{if .}}<table>
<thead><tr><th>Name</th><th>Kind</th><th>Arms</th><th>Created</th></tr></thead>
<tbody>
{{range .}}<tr><td><a href="/dashboard/{{.Name}}">{{.Name}}</a></td><td>{{.Kind}}</td><td>{{.ArmCount}}</td><td>{{.CreatedAt}}</td></tr>
{{end}}</tbody>
</table>{{else}}<p>No experiments yet. Import one with <code>abtest import</code>.</p>{{end}}
<p><a href="/dashboard?logout=1">Log out</a></p>
</body>
</html>
`))

type listItem struct {
	Name      string
	Kind      string
	ArmCount  int
	CreatedAt string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// Handle logout
	if r.URL.Query().Get("logout") == "1" {
		http.SetCookie(w, &http.Cookie{
			Name:   tokenCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	experiments, err := s.store.ListExperiments(r.Context())
	if err != nil {
		http.Error(w, "Failed to load experiments", http.StatusInternalServerError)
		return
	}

	items := make([]listItem, len(experiments))
	for i, e := range experiments {
		items[i] = listItem{
			Name:      e.Name,
			Kind:      string(e.Kind),
			ArmCount:  len(e.Arms),
			CreatedAt: e.CreatedAt.Format("Jan 2, 2006"),
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listTemplate.Execute(w, items); err != nil {
		s.logger.Sugar().Errorw("failed to render dashboard", "error", err)
	}
}

// handleDashboardExperiment renders the experiment's analysis as an HTML
// report. The same query params as the analysis API apply.
func (s *Server) handleDashboardExperiment(w http.ResponseWriter, r *http.Request) {
	opts, err := s.analysisOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := analysis.Run(r.Context(), s.store, chi.URLParam(r, "name"), opts, s.metrics)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Sugar().Errorw("failed to analyze experiment", "error", err)
			http.Error(w, "Failed to analyze experiment", status)
			return
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.HTML(a))
}
