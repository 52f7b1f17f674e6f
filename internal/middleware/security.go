package middleware

import (
	"net/http"
	"strings"

	"github.com/ajharbinger/poolvest-insights/pkg/config"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8080",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:8080",
}

var allowedContentTypes = []string{"application/json"}

var suspiciousAgents = []string{
	"sqlmap",
	"nikto",
	"nmap",
	"masscan",
	"<script",
	"javascript:",
}

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")

		// Scores are per-user; never let intermediaries cache them
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Header("Server", "")

		c.Next()
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing. Development always
// allows the local dev servers; every environment adds ALLOWED_ORIGINS.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool)
	if cfg.IsDevelopment() {
		for _, o := range devOrigins {
			allowed[o] = true
		}
	}
	for _, o := range cfg.GetAllowedOrigins() {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-CSRF-Token")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// InputValidationMiddleware caps body size, requires JSON bodies and a
// plausible User-Agent
func InputValidationMiddleware(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}

		if c.Request.ContentLength > maxBodyBytes {
			abortJSON(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}

		// Scoring POSTs may carry no body at all; only bodies need a type
		if hasBody(c.Request) {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				abortJSON(c, http.StatusBadRequest, "Content-Type header is required")
				return
			}
			if !hasAllowedPrefix(contentType, allowedContentTypes) {
				abortJSON(c, http.StatusUnsupportedMediaType, "Unsupported content type")
				return
			}
		}

		userAgent := c.GetHeader("User-Agent")
		if userAgent == "" {
			abortJSON(c, http.StatusBadRequest, "User-Agent header is required")
			return
		}

		ua := strings.ToLower(userAgent)
		for _, pattern := range suspiciousAgents {
			if strings.Contains(ua, pattern) {
				abortJSON(c, http.StatusForbidden, "Request blocked for security reasons")
				return
			}
		}

		c.Next()
	}
}

func hasBody(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	return r.ContentLength > 0 || r.ContentLength == -1
}

func hasAllowedPrefix(value string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

func abortJSON(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
