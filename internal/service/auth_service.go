package service

import (
	"context"
	"fmt"

	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists user accounts.
type UserStore interface {
	InsertUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService handles signup, login and token verification. Issued tokens
// carry only the username claim and no expiry.
type AuthService struct {
	users      UserStore
	secret     []byte
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, secret string, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		secret:     []byte(secret),
		bcryptCost: bcryptCost,
		logger:     util.GetLogger(),
	}
}

// Signup creates a new account. Duplicate usernames surface as Conflict
// from the store; there is no pre-insert uniqueness check.
func (s *AuthService) Signup(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("User created", zap.String("username", username))
	return nil
}

// Login verifies credentials and issues a signed token. An unknown user and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return signed, nil
}

// VerifyToken checks a bearer token's signature and returns the username
// claim. Any parse or signature failure maps to Forbidden.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", models.ErrForbidden)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims: %w", models.ErrForbidden)
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", fmt.Errorf("missing username claim: %w", models.ErrForbidden)
	}

	return username, nil
}
