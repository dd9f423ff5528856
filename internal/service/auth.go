package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func (s *Shop) Register(ctx context.Context, username, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := model.NewUser(username, hash, model.RoleCustomer)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

// Login opens a session for the first user whose username and password
// both match.
func (s *Shop) Login(ctx context.Context, username, password string) (*model.Session, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if u.Username() == username && u.Authenticate(password) {
			sess := s.openSession(u)
			s.log.Info("user logged in", "user_id", u.ID, "session_id", sess.ID)
			return sess, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Logout ends the session. Unknown sessions are ignored.
func (s *Shop) Logout(_ context.Context, sessionID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// RenameSelf changes the caller's username. Uniqueness is only enforced at
// registration.
func (s *Shop) RenameSelf(_ context.Context, sess *model.Session, username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required: %w", ErrValidation)
	}
	sess.User.Rename(username)
	return nil
}

func (s *Shop) ChangePassword(_ context.Context, sess *model.Session, current, next string) error {
	if !sess.User.Authenticate(current) {
		return ErrInvalidCredentials
	}
	if next == "" {
		return fmt.Errorf("password is required: %w", ErrValidation)
	}
	hash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	sess.User.ChangePassword(hash)
	return nil
}
