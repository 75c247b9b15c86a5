// Package auth issues and verifies HMAC-signed JWT bearer tokens.
//
// Every verification failure is returned as an *errors.AuthenticationError
// wrapping the jwt cause, so the resolver renders it as 401 and callers can
// still test for jwt.ErrTokenExpired and friends with errors.Is.
//
//	v, err := auth.NewVerifier(auth.Config{Secret: os.Getenv("JWT_SECRET")})
//	token, err := v.Issue("user-1", "admin")
//	claims, err := v.Parse(token)
//	ctx = auth.WithClaims(ctx, claims)
package auth
