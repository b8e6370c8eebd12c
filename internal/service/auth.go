package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mverner/inkwell/internal/domain"
)

// AuthService handles user registration, login, and session token operations.
// A session is a signed HS256 JWT carried in a cookie; the payload is the
// user id. Anyone able to alter the token without the secret invalidates
// its signature, which downstream code treats as anonymous.
type AuthService struct {
	users            domain.UserRepository
	sessionSecret    []byte
	pbkdf2Iterations int
}

// NewAuthService creates a new AuthService. iterations is the PBKDF2 work
// factor used for new password hashes; stored hashes carry their own.
func NewAuthService(users domain.UserRepository, sessionSecret string, iterations int) *AuthService {
	return &AuthService{
		users:            users,
		sessionSecret:    []byte(sessionSecret),
		pbkdf2Iterations: iterations,
	}
}

// Register creates a new user account after validating inputs.
// A duplicate email surfaces as domain.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	if email == "" || name == "" || password == "" {
		return nil, fmt.Errorf("%w: email, name, and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := HashPassword(password, s.pbkdf2Iterations)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the user on success. Unknown email
// and wrong password both return domain.ErrUnauthorized so callers cannot
// distinguish which credential was bad.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// IssueToken signs a session token binding the user's id for 24 hours.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.sessionSecret)
}

// ValidateToken parses and validates a session token string, returning the
// user id from the sub claim. Any tampering, expiry, or malformed input is
// domain.ErrUnauthorized.
func (s *AuthService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.sessionSecret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
