package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tabular/internal"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App is the HTTP frame explorer: registered frames get an HTML table
// view, a JSON records endpoint and a summary-statistics view.
type App struct {
	router    *chi.Mux
	registry  *Registry
	templates *template.Template
	logger    *internal.Logger
	port      string
}

// Config holds explorer configuration
type Config struct {
	Port string
}

// NewApp creates the explorer around a frame registry.
func NewApp(config Config, registry *Registry) (*App, error) {
	if registry == nil {
		registry = NewRegistry()
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	port := config.Port
	if port == "" {
		port = "8080"
	}

	app := &App{
		router:    chi.NewRouter(),
		registry:  registry,
		templates: templates,
		logger:    internal.NewDefaultLogger("ui"),
		port:      port,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/frames", a.handleFrames)
	a.router.Get("/frames/{name}", a.handleFrameDetail)
	a.router.Get("/frames/{name}.json", a.handleFrameJSON)
	a.router.Get("/frames/{name}/describe", a.handleFrameDescribe)
	a.router.Get("/frames/{name}/report", a.handleFrameReport)
}

// Registry returns the backing registry so callers can register frames
// after the app is built.
func (a *App) Registry() *Registry { return a.registry }

// Handler exposes the router for tests and embedding.
func (a *App) Handler() http.Handler { return a.router }

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.port
	a.logger.Info("starting frame explorer on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
