package httpapi

import (
	"net/http"
	"strings"
)

// RouterConfig wires the agenda handler and middleware chain into the
// three routes this system owns (§6).
type RouterConfig struct {
	Agendas    *AgendaHandler
	Middleware []func(http.Handler) http.Handler
	// GenerateMiddleware wraps only POST /agendas/generate, e.g.
	// RequireServiceToken (§6).
	GenerateMiddleware []func(http.Handler) http.Handler
}

// NewRouter builds the HTTP handler for the agenda generation service.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Agendas != nil {
		generateHandler := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Agendas.Generate(w, r)
		}))
		for i := len(cfg.GenerateMiddleware) - 1; i >= 0; i-- {
			if cfg.GenerateMiddleware[i] != nil {
				generateHandler = cfg.GenerateMiddleware[i](generateHandler)
			}
		}
		mux.Handle("/agendas/generate", generateHandler)

		mux.HandleFunc("/agendas", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agendas.List(w, r)
		})

		mux.HandleFunc("/agendas/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/agendas/")
			if id == "" || id == "generate" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agendas.Get(w, r, id)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
