package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type discriminators carried in the "type" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrNotResetToken = errors.New("token is not a password reset token")
)

// Claims carried by issued tokens. The subject is the user ID.
type Claims struct {
	Email     string `json:"email,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// JWT issues and validates signed tokens for sessions and password resets.
type JWT struct {
	secretKey string
	exp       time.Duration // access token lifetime
	resetExp  time.Duration // reset token lifetime
}

// Option configures a JWT instance.
type Option func(*JWT)

// WithSecretKey sets the HMAC signing key.
func WithSecretKey(secretKey string) Option {
	return func(j *JWT) { j.secretKey = secretKey }
}

// WithExpiration sets the access token lifetime.
func WithExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.exp = exp }
}

// WithResetExpiration sets the password reset token lifetime.
func WithResetExpiration(exp time.Duration) Option {
	return func(j *JWT) { j.resetExp = exp }
}

// New creates a JWT instance with the given options.
func New(opts ...Option) *JWT {
	j := &JWT{
		exp:      30 * time.Minute,
		resetExp: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Generate creates an access token embedding the user ID, email and admin flag.
func (j *JWT) Generate(ctx context.Context, userID, email string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:     email,
		IsAdmin:   isAdmin,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.exp)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GenerateReset creates a short-lived password reset token for the user ID.
func (j *JWT) GenerateReset(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: TokenTypeReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.resetExp)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GetClaims parses the token string and returns its claims if the
// signature is valid and the token has not expired.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Validate checks that the token is a well-formed, unexpired access token.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	claims, err := j.GetClaims(ctx, tokenString)
	if err != nil {
		return err
	}
	if claims.TokenType != TokenTypeAccess {
		return ErrInvalidToken
	}
	return nil
}

// GetResetSubject validates a reset token and returns its subject user ID.
// Access tokens are rejected so a stolen session cannot drive a reset.
func (j *JWT) GetResetSubject(ctx context.Context, tokenString string) (string, error) {
	claims, err := j.GetClaims(ctx, tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeReset {
		return "", ErrNotResetToken
	}
	return claims.Subject, nil
}

// GetTokenFromRequest extracts the token string from the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
