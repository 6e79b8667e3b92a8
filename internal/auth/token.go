package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"

	"hiddencard/internal/domain"
)

var ErrInvalidToken = errors.New("invalid session token")

// TokenService issues and verifies the signed session tokens clients present
// at the transport handshake. The client id lives inside the token, so the
// gateway never trusts an identity from the wire payload.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue mints a token for a brand new client id.
func (s *TokenService) Issue() (domain.ClientID, string, error) {
	id := domain.ClientID(uuid.NewString())
	token, err := s.IssueFor(id)
	return id, token, err
}

// IssueFor signs a token for an existing client id, used when a client asks
// for a refresh before its token expires.
func (s *TokenService) IssueFor(id domain.ClientID) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("token secret is not configured")
	}
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": string(id),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded client id.
func (s *TokenService) Verify(tokenString string) (domain.ClientID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if iss, ok := claims["iss"].(string); !ok || iss != s.issuer {
		return "", fmt.Errorf("%w: wrong issuer", ErrInvalidToken)
	}
	return domain.ClientID(sub), nil
}
