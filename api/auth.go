package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/clubcourt/courtbook/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "user_id"
	ctxTier   = "tier"
)

// MemberClaims is the token payload issued by the identity provider: the
// member id plus their already-resolved membership tier. The tier arrives
// normalized; no legacy membership shapes reach this service.
type MemberClaims struct {
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the member id and
// tier on the request context for the handlers.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims := &MemberClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxTier, domain.Tier(claims.Tier))
		c.Next()
	}
}

func userFromContext(c *gin.Context) (string, domain.Tier) {
	userID := c.GetString(ctxUserID)
	tier, _ := c.Get(ctxTier)
	t, _ := tier.(domain.Tier)
	return userID, t
}
