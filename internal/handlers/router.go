package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-leadflow/internal/leads"
	"github.com/imrishuroy/go-leadflow/internal/logging"
	"github.com/imrishuroy/go-leadflow/internal/metrics"
)

// HandlerConfig groups dependencies for the lead API.
type HandlerConfig struct {
	Service        *leads.Service
	AdminSecret    string
	// AdminListLimit caps GET /admin/requests; 0 disables the cap.
	AdminListLimit int
	// ExposeErrors adds internal error details to 500 responses.
	ExposeErrors   bool
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(cfg HandlerConfig) *gin.Engine {
	cfg.Logger = logging.OrNop(cfg.Logger)
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger), Metrics(cfg.Metrics), CORS())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		body := gin.H{"message": "Method not allowed"}
		if strings.HasPrefix(c.Request.URL.Path, "/admin") {
			body["success"] = false
		}
		c.JSON(http.StatusMethodNotAllowed, body)
	})

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	RegisterRequestRoutes(r, cfg)
	RegisterAdminRoutes(r, cfg)

	return r
}
