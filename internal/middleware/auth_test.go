package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/go-shop/internal/model"
)

const testSecret = "test-secret"

type mockSessions struct {
	sessions map[uuid.UUID]*model.Session
}

func (m *mockSessions) Session(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

func newSession(role model.Role) *model.Session {
	u := model.NewUser("alice", nil, role)
	u.ID = "user2"
	return &model.Session{ID: uuid.New(), User: u, CreatedAt: time.Now()}
}

func newRouter(sessions SessionResolver, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(testSecret, sessions)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetSession(c).User.ID})
	})
	r.GET("/me", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	sess := newSession(model.RoleCustomer)
	sessions := &mockSessions{sessions: map[uuid.UUID]*model.Session{sess.ID: sess}}
	r := newRouter(sessions)

	valid, err := IssueToken(testSecret, sess, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, sess, -time.Hour)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other-secret", sess, time.Hour)
	require.NoError(t, err)
	closed, err := IssueToken(testSecret, newSession(model.RoleCustomer), time.Hour)
	require.NoError(t, err)
	noSID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user2",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid", valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"garbage", "not-a-jwt", http.StatusUnauthorized},
		{"expired", expired, http.StatusUnauthorized},
		{"wrong key", wrongKey, http.StatusUnauthorized},
		{"closed session", closed, http.StatusUnauthorized},
		{"no session claim", noSID, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthMiddleware_SetsSession(t *testing.T) {
	sess := newSession(model.RoleCustomer)
	r := newRouter(&mockSessions{sessions: map[uuid.UUID]*model.Session{sess.ID: sess}})

	token, err := IssueToken(testSecret, sess, time.Hour)
	require.NoError(t, err)

	w := do(r, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user2"}`, w.Body.String())
}

func TestAdminOnly(t *testing.T) {
	customer := newSession(model.RoleCustomer)
	admin := newSession(model.RoleAdmin)
	sessions := &mockSessions{sessions: map[uuid.UUID]*model.Session{
		customer.ID: customer,
		admin.ID:    admin,
	}}
	r := newRouter(sessions, AdminOnly())

	customerToken, err := IssueToken(testSecret, customer, time.Hour)
	require.NoError(t, err)
	adminToken, err := IssueToken(testSecret, admin, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, do(r, customerToken).Code)
	assert.Equal(t, http.StatusOK, do(r, adminToken).Code)
}
