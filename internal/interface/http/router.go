package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jedalosa/energymatch/internal/domain/roleauth"
	"github.com/jedalosa/energymatch/internal/infra/config"

	"log/slog"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, rolesSvc roleauth.Service) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/", handler.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/roles", handler.IssueRole)

		api.POST("/sessions", handler.StartSession)
		api.GET("/sessions/:id", handler.GetSession)
		api.DELETE("/sessions/:id", handler.EndSession)
		api.PATCH("/sessions/:id/profile", handler.UpdateProfile)
		api.POST("/sessions/:id/profile/save", handler.SaveProfile)
		api.POST("/sessions/:id/bill-choice", handler.ChooseBill)
		api.POST("/sessions/:id/bill", handler.UploadBill)
		api.POST("/sessions/:id/advance", handler.Advance)
		api.POST("/sessions/:id/retreat", handler.Retreat)
		api.POST("/sessions/:id/location", handler.CaptureLocation)
		api.POST("/sessions/:id/analysis", handler.RunAnalysis)
		api.GET("/sessions/:id/recommendations", handler.Recommendations)

		api.GET("/providers", handler.Providers)
		api.POST("/coach/messages", handler.CoachChat)
		api.POST("/integrations/lead", handler.ForwardLead)

		provider := api.Group("/provider", roleMiddleware(rolesSvc, roleauth.RoleProvider, roleauth.RoleAdmin))
		{
			provider.GET("/dashboard", handler.ProviderDashboard)
		}

		admin := api.Group("/admin", roleMiddleware(rolesSvc, roleauth.RoleAdmin))
		{
			admin.GET("/dashboard", handler.AdminDashboard)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
