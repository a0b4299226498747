package router

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/swayami/internal/app"
	"github.com/saulo-duarte/swayami/internal/config"
	"github.com/saulo-duarte/swayami/internal/guard"
	"github.com/saulo-duarte/swayami/internal/middlewares"
)

type RouterConfig struct {
	AppHandler    *app.Handler
	Guard         guard.Source
	StaticDir     string
	AllowedOrigin string
}

// Pages that need a signed-in, onboarded user. Onboarding itself only needs
// the sign-in.
var onboardedPages = []string{
	"/task-generation",
	"/dashboard",
	"/mindspace",
	"/progress",
	"/settings",
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.Cors(cfg.AllowedOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Mount("/auth", app.AuthRoutes(cfg.AppHandler))
	r.Mount("/api", app.Routes(cfg.AppHandler))

	if cfg.StaticDir != "" {
		r.Handle("/assets/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	r.Get("/", page(cfg.StaticDir, "landing"))
	r.Get(guard.LoginPath, page(cfg.StaticDir, "login"))

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(cfg.Guard, false))
		r.Get(guard.OnboardingPath, page(cfg.StaticDir, "onboarding"))
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(cfg.Guard, true))
		for _, p := range onboardedPages {
			r.Get(p, page(cfg.StaticDir, p[1:]))
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusNotFound, map[string]string{"view": "not-found", "path": r.URL.Path})
	})

	return r
}

// page serves the single-page app entry when a build is present, and a
// small view descriptor otherwise.
func page(staticDir, view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if staticDir != "" {
			index := filepath.Join(staticDir, "index.html")
			if _, err := os.Stat(index); err == nil {
				http.ServeFile(w, r, index)
				return
			}
		}
		config.JSON(w, http.StatusOK, map[string]string{"view": view})
	}
}
