package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macerhappen/backend/internal/auth"
	"github.com/macerhappen/backend/internal/errdef"
	"github.com/macerhappen/backend/internal/models"
)

type fakeLoader struct {
	users map[int64]*models.User
}

func (f *fakeLoader) GetActive(_ context.Context, id int64, role models.Role) (*models.User, error) {
	u, ok := f.users[id]
	if !ok || !u.IsActive || u.Role != role {
		return nil, errdef.NewNotFound("User not found.")
	}
	return u, nil
}

func newRouter(t *testing.T, jwtService *auth.JWTService, loader UserLoader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(zap.NewNop()))
	g := r.Group("/participants", JWT(jwtService), RequireRole(models.RoleParticipant), ActiveUser(loader, nil))
	g.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/participants/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthChain(t *testing.T) {
	jwtService := auth.NewJWTService("secret")
	loader := &fakeLoader{users: map[int64]*models.User{
		1: {ID: 1, Role: models.RoleParticipant, IsActive: true},
		2: {ID: 2, Role: models.RoleParticipant, IsActive: false},
		3: {ID: 3, Role: models.RoleOrganizer, IsActive: true},
	}}
	r := newRouter(t, jwtService, loader)

	token := func(id int64, role models.Role) string {
		tok, err := jwtService.Generate(id, role, time.Hour)
		require.NoError(t, err)
		return tok
	}

	w := doGet(r, token(1, models.RoleParticipant))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "garbage").Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, token(3, models.RoleOrganizer)).Code)

	inactive := doGet(r, token(2, models.RoleParticipant))
	missing := doGet(r, token(99, models.RoleParticipant))
	assert.Equal(t, http.StatusNotFound, inactive.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, inactive.Body.String(), missing.Body.String())
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://localhost:3000"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), HeaderRequestID)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("*"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://anything.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Vary"))
}
