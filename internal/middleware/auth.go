package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextTokenID   = "tokenID"
	ContextTokenExp  = "tokenExp"
	ContextRequestID = "requestID"
)

// Revocations reports whether a token id was logged out.
type Revocations interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// IssueToken signs an HS256 token carrying the user's role and token version.
func IssueToken(secret string, user *models.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"ver":  user.TokenVersion,
		"jti":  uuid.NewString(),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, exp, err
}

func AuthMiddleware(secret string, db *gorm.DB, revoked Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "UNAUTHENTICATED", "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "UNAUTHENTICATED", "invalid authorization header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "INVALID_TOKEN", "invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "INVALID_TOKEN", "invalid token claims")
			return
		}

		userID, ok1 := claims["sub"].(float64)
		version, ok2 := claims["ver"].(float64)
		jti, _ := claims["jti"].(string)
		if !ok1 || !ok2 {
			httperr.Unauthorized(c, "INVALID_TOKEN", "invalid token payload")
			return
		}

		ctx := c.Request.Context()

		// 1️⃣ logout explícito
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx, jti)
			if err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("revocation check failed")
			}
			if isRevoked {
				httperr.Unauthorized(c, "TOKEN_REVOKED", "token was revoked")
				return
			}
		}

		// 2️⃣ troca de senha invalida tokens antigos
		var user models.User
		if err := db.WithContext(ctx).
			Select("id", "role", "token_version").
			First(&user, uint(userID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Unauthorized(c, "INVALID_TOKEN", "user no longer exists")
				return
			}
			httperr.Respond(c, err)
			return
		}
		if user.TokenVersion != int(version) {
			httperr.Unauthorized(c, "TOKEN_REVOKED", "token was revoked")
			return
		}

		var exp time.Time
		if e, err := claims.GetExpirationTime(); err == nil && e != nil {
			exp = e.Time
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextTokenID, jti)
		c.Set(ContextTokenExp, exp)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "FORBIDDEN", "insufficient permissions")
	}
}
