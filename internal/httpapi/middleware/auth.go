package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const UserIDKey = "auth.user_id"

// Identity extracts the caller's user id from a Bearer token when one is
// presented. Identity lives in an external service, so requests without a
// token are still served; handlers fall back to ids carried in the request
// body or query.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err == nil && tok.Valid {
				if claims, ok := tok.Claims.(jwt.MapClaims); ok {
					if sub, ok := claims["sub"].(string); ok && sub != "" {
						c.Set(UserIDKey, sub)
					}
				}
			}
		}
		c.Next()
	}
}

// CallerID returns the authenticated user id, if any.
func CallerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
