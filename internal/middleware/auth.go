package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/flicky/go-shop/internal/model"
)

const sessionKey = "session"

// SessionResolver looks up a live session by id.
type SessionResolver interface {
	Session(ctx context.Context, id uuid.UUID) (*model.Session, error)
}

// IssueToken signs a token bound to sess. The token stops working when it
// expires or when the session is closed, whichever comes first.
func IssueToken(secret string, sess *model.Session, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid":  sess.ID.String(),
		"sub":  sess.User.ID,
		"role": string(sess.User.Role),
		"exp":  now.Add(expiry).Unix(),
		"iat":  now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func AuthMiddleware(secret string, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		token, err := jwt.Parse(header[7:], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		sid, _ := claims["sid"].(string)
		sessionID, err := uuid.Parse(sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session id"})
			return
		}

		sess, err := sessions.Session(c.Request.Context(), sessionID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware. The role is read from the live
// user, not from the token.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil || !sess.User.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func GetSession(c *gin.Context) *model.Session {
	v, _ := c.Get(sessionKey)
	sess, _ := v.(*model.Session)
	return sess
}
