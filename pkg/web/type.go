package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
)

// Server wraps up the request routers that serve the mbuild status
// surface.
type Server struct {
	l hclog.Logger
	r chi.Router

	n *http.Server
}
