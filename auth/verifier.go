package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/errkit/errors"
)

// Verifier issues and parses tokens. It is safe for concurrent use.
type Verifier struct {
	cfg    Config
	method jwt.SigningMethod
	parser *jwt.Parser
	now    func() time.Time
}

// NewVerifier validates cfg and creates a Verifier.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg.ApplyDefaults()
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	method := jwt.GetSigningMethod(cfg.Method)
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(cfg.Leeway))
	}

	return &Verifier{
		cfg:    cfg,
		method: method,
		parser: jwt.NewParser(opts...),
		now:    time.Now,
	}, nil
}

// Issue signs a token for subject with the configured TTL.
func (v *Verifier) Issue(subject string, roles ...string) (string, error) {
	now := v.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    v.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.cfg.TokenTTL)),
		},
		Roles: roles,
	}
	if v.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{v.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(v.method, claims).SignedString([]byte(v.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its claims. Failures are
// *errors.AuthenticationError values wrapping the jwt error.
func (v *Verifier) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.Authentication("missing token", nil)
	}

	claims := &Claims{}
	parsed, err := v.parser.ParseWithClaims(token, claims, v.keyFunc)
	if err != nil {
		return nil, errors.Authentication(reason(err), err)
	}
	if !parsed.Valid {
		return nil, errors.Authentication("invalid token", jwt.ErrTokenUnverifiable)
	}
	if claims.Subject == "" {
		return nil, errors.Authentication("invalid token", jwt.ErrTokenRequiredClaimMissing)
	}
	return claims, nil
}

func (v *Verifier) keyFunc(*jwt.Token) (interface{}, error) {
	return []byte(v.cfg.Secret), nil
}

func reason(err error) string {
	switch {
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case stderrors.Is(err, jwt.ErrTokenNotValidYet), stderrors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return "token not valid yet"
	case stderrors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	default:
		return "invalid token"
	}
}
