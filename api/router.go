package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"snake-server/config"
	"snake-server/server"
)

// NewRouter builds the root router: the websocket endpoint plus the REST API under /api.
// When cfg.StaticDir is set, the client bundle is served from / as well.
func NewRouter(cfg config.ServerConfig, gs *server.GameServer, mh *MetricsHandler) (chi.Router, error) {
	r := chi.NewRouter()
	if cfg.StaticDir != "" {
		static, err := StaticFileServer(cfg.StaticDir, "/index.html")
		if err != nil {
			return nil, err
		}
		r.Handle("/*", static)
	}
	r.Mount("/api", NewAPIRouter(cfg, mh))
	r.HandleFunc("/ws", gs.HandleWebSocket)
	return r, nil
}

// NewAPIRouter builds the /api router with middlewares and routes.
func NewAPIRouter(cfg config.ServerConfig, mh *MetricsHandler) chi.Router {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/v1", func(sub chi.Router) {
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		sub.Get("/schema", GetSchema)
		mh.Routes(sub)
	})

	return r
}
