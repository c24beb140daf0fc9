package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devanshshrivastava16/TrustSpace/internal/auth"
)

const principalKey = "principal"

// Principal identifies the caller of an authenticated request.
type Principal struct {
	UserID string
	Email  string
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

// requireAuth rejects requests without a valid bearer token and stores the
// caller's Principal in the context.
func requireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := verifier.VerifyToken(strings.TrimSpace(raw))
		if err != nil {
			writeError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(principalKey, Principal{UserID: claims.UserID, Email: claims.Email})
		c.Next()
	}
}

// principal returns the caller set by requireAuth.
func principal(c *gin.Context) Principal {
	p, _ := c.Get(principalKey)
	pr, _ := p.(Principal)
	return pr
}
