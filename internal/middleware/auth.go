package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/datahub-backend/internal/handlers"
	"github.com/yungbote/datahub-backend/internal/platform/apperr"
	"github.com/yungbote/datahub-backend/internal/platform/logger"
	"github.com/yungbote/datahub-backend/internal/requestdata"
	"github.com/yungbote/datahub-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLog := baseLog.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLog, authService: authService}
}

// RequireAuth resolves the bearer token into a principal and stores it in
// the request context. Every protected route runs through here first.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			handlers.AbortError(c, apperr.Unauthorized("missing or invalid token"))
			return
		}
		principal, err := am.authService.PrincipalFromToken(c.Request.Context(), tokenString)
		if err != nil {
			handlers.AbortError(c, err)
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			TokenString: tokenString,
			Principal:   principal,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireActiveUser rejects disabled accounts. Must run after RequireAuth.
func (am *AuthMiddleware) RequireActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := handlers.PrincipalFrom(c)
		if principal == nil {
			handlers.AbortError(c, apperr.Unauthorized("could not validate credentials"))
			return
		}
		if err := services.RequireActive(principal); err != nil {
			handlers.AbortError(c, err)
			return
		}
		c.Next()
	}
}

// RequireSuperuser gates admin routes. Must run after RequireAuth.
func (am *AuthMiddleware) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := handlers.PrincipalFrom(c)
		if principal == nil {
			handlers.AbortError(c, apperr.Unauthorized("could not validate credentials"))
			return
		}
		if err := services.RequireSuperuser(principal); err != nil {
			handlers.AbortError(c, err)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}
