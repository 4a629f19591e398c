package services

import (
	"errors"
	"time"

	"travelplanner/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionTTL  = 2 * time.Hour
	RememberTTL = 30 * 24 * time.Hour
	issuer      = "travelplanner"
)

// SessionClaims is the JWT payload; Subject is the account ID.
type SessionClaims struct {
	Remember bool `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies HS256 session tokens.
type SessionService struct {
	Secret []byte
	Now    func() time.Time
}

// Issue signs a token for accountID. remember extends the lifetime from
// SessionTTL to RememberTTL.
func (s SessionService) Issue(accountID string, remember bool) (string, time.Time, error) {
	if len(s.Secret) == 0 {
		return "", time.Time{}, errors.New("session secret not configured")
	}
	now := nowOr(s.Now)
	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}
	expires := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify checks signature, issuer and expiry and returns the claims.
func (s SessionService) Verify(raw string) (SessionClaims, error) {
	var claims SessionClaims
	if raw == "" {
		return claims, domain.UnauthorizedError{}
	}
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return nowOr(s.Now) }),
	)
	if err != nil {
		return SessionClaims{}, domain.UnauthorizedError{Err: err}
	}
	if claims.Subject == "" {
		return SessionClaims{}, domain.UnauthorizedError{}
	}
	return claims, nil
}
