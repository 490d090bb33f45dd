package services

import (
	"context"
	"errors"

	"github.com/sbilibin2017/todo-tracker/internal/jwt"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Error variables shared across the auth, admin and reset services.
var (
	ErrUserAlreadyExists  = errors.New("user id or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("missing or invalid token")
	ErrForbidden          = errors.New("administrator role required")
)

// UserReader defines the read operations the auth service needs.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByIDOrEmail(ctx context.Context, id, email string) (*models.UserDB, error)
}

// UserWriter defines the write operations the auth service needs.
type UserWriter interface {
	Save(ctx context.Context, id, email, hashedPassword string) (*models.UserDB, error)
}

// Tokener issues access tokens and recovers their claims.
type Tokener interface {
	Generate(ctx context.Context, userID, email string, isAdmin bool) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// AuthService handles registration, login and request authorization.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    Tokener
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt Tokener) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
	}
}

// hashPassword produces a salted bcrypt digest. The digest embeds the
// algorithm, cost and salt, so verification needs no side state.
func hashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// checkPassword verifies a plaintext against a bcrypt digest in
// constant time. A malformed or foreign-format digest yields false,
// never an error surfaced to the caller.
func checkPassword(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		logger.Log.Errorw("malformed password digest", "err", err)
	}
	return err == nil
}

// Register creates a new ordinary user. Fails with ErrUserAlreadyExists
// if the id or email is taken. The returned record never carries the
// plaintext password.
func (svc *AuthService) Register(ctx context.Context, id, email, password string) (*models.UserDB, error) {
	existing, err := svc.reader.GetByIDOrEmail(ctx, id, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warnw("user already exists", "id", id, "email", email)
		return nil, ErrUserAlreadyExists
	}

	digest, err := hashPassword(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, id, email, digest)
	if err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	return user, nil
}

// Login authenticates by email and password and returns an access token
// embedding the user id, email and role flag.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Warnw("login for unknown email", "email", email)
		return "", ErrInvalidCredentials
	}

	if !checkPassword(password, user.HashedPassword) {
		logger.Log.Warnw("password verification failed", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.ID, user.Email, user.IsAdmin)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// CurrentUser resolves the calling identity from a bearer token.
// Any verification failure surfaces as ErrUnauthenticated.
func (svc *AuthService) CurrentUser(ctx context.Context, token string) (string, error) {
	claims, err := svc.jwt.GetClaims(ctx, token)
	if err != nil {
		logger.Log.Warnw("token verification failed", "err", err)
		return "", ErrUnauthenticated
	}
	if claims.TokenType != jwt.TokenTypeAccess {
		return "", ErrUnauthenticated
	}
	return claims.Subject, nil
}

// CurrentAdmin resolves the identity and re-reads the role flag from
// the store rather than trusting the token's claim, so a demoted admin
// loses access on the next request.
func (svc *AuthService) CurrentAdmin(ctx context.Context, token string) (string, error) {
	userID, err := svc.CurrentUser(ctx, token)
	if err != nil {
		return "", err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load user for admin check", "user_id", userID, "err", err)
		return "", err
	}
	if user == nil || !user.IsAdmin {
		logger.Log.Warnw("admin access denied", "user_id", userID)
		return "", ErrForbidden
	}

	return userID, nil
}
