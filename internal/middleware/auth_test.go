package middleware

import (
	"net/http"
	"net/http/httptest"
	"sdo_backend/internal/config"
	"sdo_backend/internal/model"
	"sdo_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/admin", AuthMiddleware(cfg), RoleMiddleware(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func tokenFor(t *testing.T, secret string, role model.UserRole) string {
	u := &model.User{Username: "u", Role: role}
	u.ID = 7
	token, err := util.GenerateJWT(u, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s3cret"}}
	r := protectedRouter(cfg)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"bad signature", "/me", "Bearer " + tokenFor(t, "other", model.RoleUser), http.StatusUnauthorized},
		{"user", "/me", "Bearer " + tokenFor(t, "s3cret", model.RoleUser), http.StatusOK},
		{"query token", "/me?token=" + tokenFor(t, "s3cret", model.RoleUser), "", http.StatusOK},
		{"user on admin route", "/admin", "Bearer " + tokenFor(t, "s3cret", model.RoleUser), http.StatusForbidden},
		{"admin", "/admin", "Bearer " + tokenFor(t, "s3cret", model.RoleAdmin), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := protectedRouter(&config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
