package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	bq "github.com/budgetwise/budgetwise/internal/bigquery"
)

var (
	// ErrInvalidCredentials is returned on a bad username or password.
	// Login never reveals which of the two was wrong.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("auth: username already exists")

	// ErrInvalidToken is returned for missing, unknown or expired sessions.
	ErrInvalidToken = errors.New("auth: invalid session token")
)

const sessionTTL = 24 * time.Hour

type session struct {
	userID    string
	expiresAt time.Time
}

// Service handles user registration, login and session validation.
// Sessions are held in memory and expire after 24 hours; users and
// password hashes are persisted through the user repository.
type Service struct {
	users bq.UserRepository

	mu       sync.Mutex
	sessions map[string]session
}

// NewService creates an auth service backed by the given user repository.
func NewService(users bq.UserRepository) *Service {
	return &Service{
		users:    users,
		sessions: make(map[string]session),
	}
}

// Register creates a new user with a bcrypt-hashed password and returns
// the new user ID.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("Register: username is required")
	}
	if len(password) < 8 {
		return "", fmt.Errorf("Register: password must be at least 8 characters")
	}

	existing, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("Register: looking up username: %w", err)
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("Register: hashing password: %w", err)
	}

	row := &bq.UserRow{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedTS:    time.Now().UTC(),
	}
	if err := s.users.InsertUser(ctx, row); err != nil {
		return "", fmt.Errorf("Register: inserting user: %w", err)
	}
	return row.UserID, nil
}

// Login verifies the credentials and returns a fresh session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", fmt.Errorf("Login: looking up username: %w", err)
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{
		userID:    user.UserID,
		expiresAt: time.Now().Add(sessionTTL),
	}
	s.mu.Unlock()

	return token, nil
}

// Validate resolves a session token to its user ID.
func (s *Service) Validate(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", ErrInvalidToken
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", ErrInvalidToken
	}
	return sess.userID, nil
}

// Logout removes the session. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
