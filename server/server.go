// Package server wires the HTTP surface of the login service: the provider
// redirect, the callback, logout, and the pages around them. All protocol
// work is delegated to the github, identity, and sessions packages.
package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/github"
	"github.com/jrsteele09/go-login-server/identity"
	"github.com/jrsteele09/go-login-server/internal/config"
	"github.com/jrsteele09/go-login-server/server/flowstate"
	"github.com/jrsteele09/go-login-server/sessions"
)

type Server struct {
	env        string
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	provider   *github.Provider
	identities identity.Store
	sessions   *sessions.Manager
	flowStates flowstate.Repo
}

func New(
	cfg config.Config,
	provider *github.Provider,
	identities identity.Store,
	sessionRepo sessions.Repo,
	flowStates flowstate.Repo,
) *Server {
	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		provider:   provider,
		identities: identities,
		sessions:   sessions.NewManager(sessionRepo, identities),
		flowStates: flowStates,
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
