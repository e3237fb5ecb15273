package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "trustocracy/backend/pkg/errors"
)

var (
	ErrMissingToken = errors.New("missing authentication token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carries the Person id in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies the HS256 session tokens.
type TokenService struct {
	secret []byte
	domain string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. domain is used both as issuer
// and audience.
func NewTokenService(secret, domain string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("secret key required for HS256")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return &TokenService{
		secret: []byte(secret),
		domain: domain,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the user.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.domain,
			Audience:  jwt.ClaimStrings{s.domain},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer, audience and expiry and returns the
// user id in the subject. Every failure is an auth error.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, apperrors.NewUnauthorized(ErrMissingToken)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.domain),
		jwt.WithAudience(s.domain),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.NewUnauthorized(ErrExpiredToken)
		}
		return 0, apperrors.NewUnauthorized(fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, apperrors.NewUnauthorized(fmt.Errorf("%w: bad subject", ErrInvalidToken))
	}
	return userID, nil
}
