package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/errkit/auth"
	"github.com/kbukum/errkit/errors"
)

// ContextKeyClaims is the gin context key holding the verified *auth.Claims.
const ContextKeyClaims = "auth.claims"

// Auth verifies the bearer token on every request except skipPaths. Failures
// are recorded as *errors.AuthenticationError and rendered by the resolver
// as 401.
func Auth(verifier *auth.Verifier, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.FullPath()] || skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			Abort(c, errors.Authentication("missing bearer token", nil))
			return
		}
		claims, err := verifier.Parse(token)
		if err != nil {
			Abort(c, err)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// RequireRole rejects requests whose claims lack role with
// *errors.AccessDeniedError. It must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			Abort(c, errors.Authentication("missing credentials", nil))
			return
		}
		if !claims.HasRole(role) {
			Abort(c, errors.AccessDenied(claims.Subject, c.FullPath()))
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Auth.
func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
