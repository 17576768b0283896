package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/ctxutil"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

// TokenParser turns a bearer token into the caller it was issued to.
type TokenParser interface {
	ParseToken(tokenString string) (*ctxutil.RequestData, error)
}

type AuthMiddleware struct {
	log    *logger.Logger
	tokens TokenParser
}

func NewAuthMiddleware(log *logger.Logger, tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), tokens: tokens}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondAPIError(c, apierr.Unauthorized("missing or invalid token"))
			return
		}
		rd, err := am.tokens.ParseToken(tokenString)
		if err != nil {
			am.log.Debug("Rejected token", "error", err)
			response.RespondAPIError(c, err)
			return
		}
		if rd == nil || rd.UserID == uuid.Nil {
			response.RespondAPIError(c, apierr.Unauthorized("missing or invalid token"))
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.RespondAPIError(c, apierr.Unauthorized("authentication required"))
			return
		}
		for _, r := range roles {
			if rd.Role == r {
				c.Next()
				return
			}
		}
		response.RespondAPIError(c, apierr.Forbidden("insufficient role"))
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
