package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taxdecl/internal/config"
)

// CORS builds the cross-origin policy from configuration. A "*" entry allows
// every origin, in which case credentials are not allowed.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if slices.Contains(cfg.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Authorization", "Accept", "X-Requested-With", SessionHeader)
	corsConfig.AddExposeHeaders("Content-Disposition", "X-Request-ID")
	corsConfig.MaxAge = 24 * time.Hour
	return cors.New(corsConfig)
}
