package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID   string
	Role Role
	Cart *Cart

	mu           sync.RWMutex
	username     string
	passwordHash []byte
	orders       []*Order
	rated        []*Product
}

func NewUser(username string, passwordHash []byte, role Role) *User {
	return &User{
		Role:         role,
		Cart:         NewCart(),
		username:     username,
		passwordHash: passwordHash,
	}
}

func (u *User) Username() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.username
}

func (u *User) Rename(username string) {
	u.mu.Lock()
	u.username = username
	u.mu.Unlock()
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Authenticate reports whether password is the one the user registered with.
func (u *User) Authenticate(password string) bool {
	u.mu.RLock()
	hash := u.passwordHash
	u.mu.RUnlock()
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (u *User) ChangePassword(passwordHash []byte) {
	u.mu.Lock()
	u.passwordHash = passwordHash
	u.mu.Unlock()
}

func (u *User) AddOrderToHistory(o *Order) {
	u.mu.Lock()
	u.orders = append(u.orders, o)
	u.mu.Unlock()
}

func (u *User) OrderHistory() []*Order {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]*Order(nil), u.orders...)
}

func (u *User) OrderCount() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.orders)
}

func (u *User) OrderByID(id string) (*Order, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for _, o := range u.orders {
		if o.ID() == id {
			return o, true
		}
	}
	return nil, false
}

// AddRatedProduct records p once; later ratings of the same product keep
// its original position.
func (u *User) AddRatedProduct(p *Product) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, r := range u.rated {
		if r == p {
			return
		}
	}
	u.rated = append(u.rated, p)
}

func (u *User) RatedProducts() []*Product {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]*Product(nil), u.rated...)
}

// Session identifies an authenticated caller.
type Session struct {
	ID        uuid.UUID
	User      *User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
