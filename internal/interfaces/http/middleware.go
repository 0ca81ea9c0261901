package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"github.com/picelmedia/wabot-admin/internal/usecases"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

const (
	ctxUserID   = "user_id"
	ctxRole     = "role"
	ctxClientID = "client_id"

	headerRequestID = "X-Request-ID"
)

// TokenVerifier checks bearer tokens.
type TokenVerifier interface {
	ParseToken(token string) (*usecases.Claims, error)
}

// TenantResolver finds the tenant of a user.
type TenantResolver interface {
	ClientIDForUser(ctx context.Context, userID string) (string, error)
}

// Limiter is a keyed token bucket.
type Limiter interface {
	Allow(key string) bool
}

type Middleware struct {
	tokens        TokenVerifier
	tenants       TenantResolver
	limiter       Limiter
	allowedOrigin string
}

func NewMiddleware(tokens TokenVerifier, tenants TenantResolver, limiter Limiter, allowedOrigin string) *Middleware {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &Middleware{
		tokens:        tokens,
		tenants:       tenants,
		limiter:       limiter,
		allowedOrigin: allowedOrigin,
	}
}

// authMessages are the 401 texts a route answers with.
type authMessages struct {
	missing, badHeader, invalid string
}

var (
	defaultAuthMessages = authMessages{
		missing:   "Authorization header required",
		badHeader: "Invalid authorization header",
	}
	// Campaign clients match on these exact texts.
	campaignAuthMessages = authMessages{
		missing:   "Unauthorized - No token provided",
		badHeader: "Unauthorized - No token provided",
		invalid:   "Unauthorized - Invalid token",
	}
)

// AuthRequired verifies the bearer token. EventSource cannot set headers, so
// an access_token query parameter is accepted as well.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return m.authenticate(defaultAuthMessages)
}

// CampaignAuthRequired is AuthRequired with the send-campaign error texts.
func (m *Middleware) CampaignAuthRequired() gin.HandlerFunc {
	return m.authenticate(campaignAuthMessages)
}

func (m *Middleware) authenticate(msgs authMessages) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondError(c, apperrors.New(apperrors.ErrUnauthorized, msgs.badHeader))
				return
			}
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		} else {
			tokenString = c.Query("access_token")
		}
		if tokenString == "" {
			respondError(c, apperrors.New(apperrors.ErrUnauthorized, msgs.missing))
			return
		}

		claims, err := m.tokens.ParseToken(tokenString)
		if err != nil {
			if msgs.invalid != "" && apperrors.IsUnauthorizedError(err) {
				err = apperrors.New(apperrors.ErrUnauthorized, msgs.invalid)
			}
			respondError(c, err)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		ctx := tenant.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// TenantRequired binds the caller's client_id to the request context. It
// must follow AuthRequired.
func (m *Middleware) TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		if userID == "" {
			respondError(c, apperrors.ErrUnauthorized)
			return
		}
		clientID, err := m.tenants.ClientIDForUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				respondError(c, apperrors.New(apperrors.ErrForbidden, "No client profile for this user"))
				return
			}
			respondError(c, err)
			return
		}
		c.Set(ctxClientID, clientID)
		c.Request = c.Request.WithContext(tenant.WithClientID(c.Request.Context(), clientID))
		c.Next()
	}
}

func (m *Middleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != entities.RoleAdmin {
			respondError(c, apperrors.New(apperrors.ErrForbidden, "Admin access required"))
			return
		}
		c.Next()
	}
}

// RateLimitPerUser limits requests per user id. It must follow AuthRequired.
func (m *Middleware) RateLimitPerUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}
		key := c.GetString(ctxUserID)
		if key == "" {
			key = c.ClientIP()
		}
		if !m.limiter.Allow(key) {
			respondError(c, apperrors.New(apperrors.ErrRateLimited, "Rate limit exceeded"))
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows cross-origin requests from the dashboard origin.
func (m *Middleware) CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", m.allowedOrigin)
		if m.allowedOrigin != "*" {
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestID tags the request with an id, reusing the caller's X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(headerRequestID, id)
		c.Request = c.Request.WithContext(tenant.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLog writes one zap line per request and records HTTP metrics.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		observer.ObserveHTTPRequest(c.Request.Method, c.FullPath(), status, elapsed)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.ClientIP()),
		}
		if userID := c.GetString(ctxUserID); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		log := logger.FromContext(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns panics into a 500 JSON answer.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context()).Error("Panic recovered in handler",
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// SecurityHeaders adds headers against sniffing and framing.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

// RequestSizeLimiter caps the request body size.
func RequestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
