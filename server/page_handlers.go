package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/identity"
)

const contentTypeHTML = "text/html; charset=utf-8"

const indexTemplateHTML = `<!DOCTYPE html>
<html>
<head><title>{{.AppName}}</title></head>
<body>
<h1>{{.AppName}}</h1>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .User}}
<p>Signed in as {{.User.DisplayName}}</p>
<p><a href="/dashboard">Dashboard</a> | <a href="/auth/logout">Log out</a></p>
{{else}}
<p><a href="/auth/github/login">Sign in with GitHub</a></p>
{{end}}
</body>
</html>`

const dashboardTemplateHTML = `<!DOCTYPE html>
<html>
<head><title>Dashboard</title></head>
<body>
<h1>Dashboard</h1>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<p>{{.User.DisplayName}} ({{.User.Email}})</p>
{{if .User.AvatarURL}}<img src="{{.User.AvatarURL}}" alt="avatar" width="64">{{end}}
<p><a href="/">Home</a> | <a href="/auth/logout">Log out</a></p>
</body>
</html>`

// pageData carries the notice strings and the optional signed-in identity
// into the page templates.
type pageData struct {
	AppName string
	Notice  string
	Error   string
	User    *identity.Identity
}

// IndexHandler renders the landing page with any pending notice
// (GET /).
func (s *Server) IndexHandler() http.HandlerFunc {
	indexTmpl := template.Must(template.New("index").Parse(indexTemplateHTML))

	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			AppName: s.config.GetAppName(),
			Notice:  r.URL.Query().Get("notice"),
			Error:   r.URL.Query().Get("error"),
			User:    s.sessions.Current(r),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := indexTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("failed to render index template")
		}
	}
}

// DashboardHandler renders the protected landing page (GET /dashboard).
// RequireSessionAuth guarantees an identity is present.
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl := template.Must(template.New("dashboard").Parse(dashboardTemplateHTML))

	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Notice: r.URL.Query().Get("notice"),
			User:   identityFromContext(r.Context()),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := dashboardTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("failed to render dashboard template")
		}
	}
}

func (s *Server) FaviconHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
