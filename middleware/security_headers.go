package middleware

import (
	"github.com/NomadCrew/nomad-crew-newsletter/config"
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds browser hardening headers to every response.
// HSTS is only sent in production.
func SecurityHeadersMiddleware(env config.Environment) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if env == config.EnvProduction {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
