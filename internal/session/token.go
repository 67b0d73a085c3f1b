package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// Claims is carried by the session cookie. RegisteredClaims.ID holds the session id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and validates session cookies.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSigner constructs an HS256 signer.
func NewSigner(secret, issuer string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a cookie value for u.
func (s *Signer) Issue(u *User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       u.ID,
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session")
	}
	return signed, nil
}

// Parse validates a cookie value and returns its claims.
func (s *Signer) Parse(value string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSessionMissing.Code, appErrors.ErrSessionMissing.Status, appErrors.ErrSessionMissing.Message)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, appErrors.ErrSessionMissing
	}
	return claims, nil
}

// TTL returns the configured session lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }
