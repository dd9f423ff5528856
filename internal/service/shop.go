package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flicky/go-shop/internal/catalog"
	"github.com/flicky/go-shop/internal/model"
	"github.com/flicky/go-shop/internal/repository"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("forbidden")
)

// EventPublisher delivers order lifecycle events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

const defaultSessionTTL = 24 * time.Hour

type Config struct {
	AdminUsername string
	AdminPassword string
	BcryptCost    int
	SessionTTL    time.Duration
	StatusPolicy  model.StatusPolicy
	NewOrderID    func() string
	Now           func() time.Time
}

func (c *Config) setDefaults() {
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.StatusPolicy == nil {
		c.StatusPolicy = model.AnyTransition
	}
	if c.NewOrderID == nil {
		c.NewOrderID = uuid.NewString
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Shop owns the catalog, the registered users and the live sessions, and
// runs every user and admin operation against them.
type Shop struct {
	catalog *catalog.Catalog
	users   repository.UserRepository
	events  EventPublisher
	log     *slog.Logger
	cfg     Config

	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.Session
}

// NewShop builds a shop around cat and users and registers the admin
// account. events may be nil.
func NewShop(
	ctx context.Context,
	cat *catalog.Catalog,
	users repository.UserRepository,
	events EventPublisher,
	log *slog.Logger,
	cfg Config,
) (*Shop, error) {
	cfg.setDefaults()
	s := &Shop{
		catalog:  cat,
		users:    users,
		events:   events,
		log:      log,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*model.Session),
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin credentials: %w", ErrValidation)
	}
	hash, err := s.hashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin := model.NewUser(cfg.AdminUsername, hash, model.RoleAdmin)
	admin.ID = "admin"
	if err := users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return s, nil
}

// Session resolves a live session. An expired session is dropped and
// reported as not found.
func (s *Shop) Session(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.Expired(s.cfg.Now()) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Shop) openSession(u *model.User) *model.Session {
	now := s.cfg.Now()
	sess := &model.Session{
		ID:        uuid.New(),
		User:      u,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.sessions[sess.ID] = sess
	return sess
}

// sweepLocked drops every session expired at now. Callers hold s.mu.
func (s *Shop) sweepLocked(now time.Time) {
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
		}
	}
}

func (s *Shop) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *Shop) publish(ctx context.Context, eventType string, o *model.Order) {
	if s.events == nil {
		return
	}
	event := model.NewOrderEvent(eventType, o, s.cfg.Now())
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("publish order event", "type", eventType, "order_id", o.ID(), "error", err)
	}
}

func requireAdmin(sess *model.Session) error {
	if !sess.User.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
