package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows every origin outside production. In production only the listed origins are
// allowed, and with none listed cross-origin requests get no CORS headers at all.
func CORS(allowedOrigins []string, isProduction bool) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if isProduction {
		if len(allowedOrigins) == 0 {
			return func(c *gin.Context) { c.Next() }
		}
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	return cors.New(corsConfig)
}
