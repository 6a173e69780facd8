package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/narayanji/distributor-app/internal/errors"
	"github.com/narayanji/distributor-app/pkg/logger"
	"github.com/narayanji/distributor-app/pkg/util"
)

const (
	ContextUserID = "user_id"
	ContextPhone  = "phone"
	ContextRole   = "role"
)

// Authenticate validates the bearer token and stores the claims on the
// request context.
func Authenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtSecret)
		if !ok {
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextPhone, claims.Phone)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuthenticate attaches claims when a valid token is present but
// lets anonymous requests through. Catalog browsing does not require login.
func OptionalAuthenticate(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := stripBearer(header)
		if !ok {
			c.Next()
			return
		}

		if claims, err := util.ValidateToken(token, jwtSecret); err == nil {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextPhone, claims.Phone)
			c.Set(ContextRole, claims.Role)
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated user has one of the
// given roles. Must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		logger.Warn("Access denied: insufficient role", map[string]interface{}{
			"path":     c.Request.URL.Path,
			"role":     role,
			"required": roles,
		})
		apperrors.Forbidden(c, "You do not have permission to access this resource")
		c.Abort()
	}
}

// GetUserID returns the authenticated user's ID from the request context.
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// IsAdmin reports whether the request carries an admin token.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextRole) == "admin"
}

func parseBearer(c *gin.Context, jwtSecret string) (*util.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		apperrors.Unauthorized(c, "Authorization header is required")
		return nil, false
	}

	token, ok := stripBearer(header)
	if !ok {
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid,
			"Authorization header must be a bearer token")
		return nil, false
	}

	claims, err := util.ValidateToken(token, jwtSecret)
	if err != nil {
		code := apperrors.AuthTokenInvalid
		message := "Invalid access token"
		if errors.Is(err, util.ErrExpiredToken) {
			code = apperrors.AuthTokenExpired
			message = "Access token has expired"
		}
		apperrors.RespondWithError(c, http.StatusUnauthorized, code, message)
		return nil, false
	}
	return claims, true
}

func stripBearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
