// Package api serves normalized directories as JSON over HTTP.
package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"deliverydir/internal/config"
	"deliverydir/internal/directory"
	"deliverydir/internal/logger"
)

// HealthPath is the liveness route.
const HealthPath = "/healthz"

// Route serves the merged bindings at Path.
type Route struct {
	Path     string
	Bindings []directory.Binding
}

// Options configures the router.
type Options struct {
	// AllowOrigins lists the CORS origins. Empty or containing "*" allows all.
	AllowOrigins []string
}

// RoutesFromConfig resolves every configured route.
func RoutesFromConfig(cfg *config.Config) ([]Route, error) {
	routes := make([]Route, 0, len(cfg.Server.Routes))

	for _, rc := range cfg.Server.Routes {
		bindings, err := directory.BindingsFromConfig(cfg, rc.Sources)
		if err != nil {
			return nil, err
		}

		routes = append(routes, Route{Path: rc.Path, Bindings: bindings})
	}

	return routes, nil
}

// NewRouter builds the gin engine with one GET handler per route.
func NewRouter(svc *directory.Service, routes []Route, opts Options, log *logger.Logger) *gin.Engine {
	log = log.With("component", "api")

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log), cors.New(corsConfig(opts.AllowOrigins)))

	r.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handler{svc: svc, logger: log}
	for _, route := range routes {
		r.GET(route.Path, h.serve(route))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}
