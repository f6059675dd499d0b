package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/unrolled/secure"

	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

const subjectKey = "subject"

const (
	permViewDashboard = entity.PermViewDashboard
	permViewSupplies  = entity.PermViewSupplies
	permExportData    = entity.PermExportData
)

// loggingMiddleware logs one line per request
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"subject", subjectOf(c),
		)
	}
}

// identityMiddleware resolves the console user from the configured header
func (s *Server) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetHeader(s.config.UserHeader)
		if subject == "" {
			subject = s.config.DefaultUser
		}
		c.Set(subjectKey, subject)
		c.Next()
	}
}

// requirePermission rejects API calls lacking permission with a 403 envelope
func (s *Server) requirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.navigation.Can(c.Request.Context(), subjectOf(c), permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, Response{
				Success: false,
				Error:   "permission denied: " + permission,
			})
			return
		}
		c.Next()
	}
}

// requirePagePermission renders the forbidden page instead of JSON
func (s *Server) requirePagePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := subjectOf(c)
		if !s.navigation.Can(c.Request.Context(), subject, permission) {
			c.Status(http.StatusForbidden)
			c.Header("Content-Type", "text/html; charset=utf-8")
			err := s.pages.ExecuteTemplate(c.Writer, "forbidden.html", pageData{
				Title:   "Accès refusé",
				Subject: subject,
				Menu:    s.navigation.Menu(c.Request.Context(), subject, c.Request.URL.Path),
			})
			if err != nil {
				s.logger.Error("Failed to render forbidden page", "error", err)
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// securityMiddleware sets the hardening headers
func (s *Server) securityMiddleware() gin.HandlerFunc {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'",
		SSLRedirect:           s.config.SSLRedirect,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         s.config.Development,
	})
	return func(c *gin.Context) {
		// Process has already written the redirect or rejection on error
		if err := sec.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	}
}

// corsMiddleware answers preflight requests of the browser front-end
func (s *Server) corsMiddleware() gin.HandlerFunc {
	if len(s.config.AllowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	handler := cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", s.config.UserHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	return func(c *gin.Context) {
		handler.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func subjectOf(c *gin.Context) string {
	return c.GetString(subjectKey)
}
