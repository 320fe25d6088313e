package stub

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prostudia/examclient/internal/config"
	"github.com/prostudia/examclient/internal/response"
)

// SetupRouter configures the stub's Gin engine with CORS and request-id
// middleware and mounts the three endpoints under /api/v1.
func SetupRouter(h *Handler, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/test/verify_passcode/:passcode", h.VerifyPasscode)
		v1.GET("/progress/current-progress", h.GetProgress)
		v1.POST("/progress/submission", h.SaveProgress)
	}

	return router
}
