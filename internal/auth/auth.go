package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "clientboard"

var errMissingSecret = errors.New("no signing secret configured")

// Claims identify the operator making a write request
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

type Service struct {
	secret  []byte
	nowFunc func() time.Time
}

func NewService(secret string, nowFunc func() time.Time) *Service {
	return &Service{
		secret:  []byte(secret),
		nowFunc: nowFunc,
	}
}

// IssueToken returns a HS256 signed token for subject, valid for ttl
func (s *Service) IssueToken(subject string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errMissingSecret
	}
	if subject == "" {
		return "", fmt.Errorf("%w: subject is empty", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: token lifetime must be positive", domain.ErrInvalidInput)
	}

	now := s.nowFunc()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken validates the token. All failures wrap domain.ErrUnauthorized.
func (s *Service) ParseToken(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, errMissingSecret)
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.nowFunc),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	return Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

type claimsKeyType struct{}

var claimsKey = claimsKeyType{}

func AddClaimsToContext(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}
