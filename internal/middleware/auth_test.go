package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/jwt"
	"circlepoint/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(jwtService *jwt.Service, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuth(jwtService))
	handlers := append(extra, func(c *gin.Context) {
		a := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": a.ID, "role": a.Role})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	validToken, _ := jwtService.GenerateToken("user-42", string(domain.RoleManager))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	protectedRouter(jwtService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-42")
	assert.Contains(t, w.Body.String(), "manager")
}

func TestJWTAuth_QueryTokenForWebsocket(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, _ := jwtService.GenerateToken("user-7", string(domain.RoleUser))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected?token="+token, nil)
	protectedRouter(jwtService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-7")
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	jwtService := jwt.New("wrong-secret", time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt-here")
	protectedRouter(jwtService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuth_NoToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	protectedRouter(jwt.New("secret", time.Hour)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH_HEADER_MISSING")
}

func TestJWTAuth_WrongFormat(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dGVzdA==")
	protectedRouter(jwt.New("secret", time.Hour)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	router := protectedRouter(jwtService, SuperAdminOnly())

	cases := []struct {
		role domain.UserRole
		want int
	}{
		{domain.RoleUser, http.StatusForbidden},
		{domain.RoleManager, http.StatusForbidden},
		{domain.RoleSuperAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			token, _ := jwtService.GenerateToken("u1", string(tc.role))
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestErrorLogger_RecoversPanics(t *testing.T) {
	router := gin.New()
	router.Use(ErrorLogger())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.circlepoint.test"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "https://app.circlepoint.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.circlepoint.test", w.Header().Get("Access-Control-Allow-Origin"))
}

type stubUsers map[string]*domain.User

func (s stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func TestCurrentRole_UsesStoredRole(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	users := stubUsers{"u1": {ID: "u1", Role: domain.RoleManager}}
	router := protectedRouter(jwtService, CurrentRole(users), ManagerOnly())

	// Issued while the account was still a plain user.
	token, _ := jwtService.GenerateToken("u1", string(domain.RoleUser))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
}

func TestCurrentRole_DemotionTakesEffect(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	users := stubUsers{"u1": {ID: "u1", Role: domain.RoleUser}}
	router := protectedRouter(jwtService, CurrentRole(users), ManagerOnly())

	token, _ := jwtService.GenerateToken("u1", string(domain.RoleManager))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCurrentRole_UnknownOrFailingLookup(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	router := protectedRouter(jwtService, CurrentRole(stubUsers{}))

	cases := []struct {
		userID string
		want   int
		code   string
	}{
		{"deleted-user", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"broken", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.userID, func(t *testing.T) {
			token, _ := jwtService.GenerateToken(tc.userID, string(domain.RoleUser))
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestErrorLogger_RedactsQueryToken(t *testing.T) {
	logs := captureLogs(t)

	router := gin.New()
	router.Use(ErrorLogger())
	router.GET("/ws", func(c *gin.Context) {
		_ = c.Error(errors.New("upgrade failed"))
		c.Status(http.StatusBadRequest)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ws?token=eyJsecret.jwt.value&channel=bookings", nil))

	out := logs.String()
	require.Contains(t, out, "request_error")
	assert.NotContains(t, out, "eyJsecret")
	assert.Contains(t, out, "token=REDACTED")
	assert.Contains(t, out, "channel=bookings")
}

func TestRedactedQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/x?page=2", nil)
	assert.Equal(t, "page=2", redactedQuery(req.URL))

	req = httptest.NewRequest("GET", "/x", nil)
	assert.Equal(t, "", redactedQuery(req.URL))
}
