package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/gmp-artesanias/gmp-backend/internal/errors"
	"github.com/gmp-artesanias/gmp-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return s.revoked[id], s.err
}

func setupMiddlewareTest(revoked RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, revoked)
}

func generateTestTokens(t *testing.T, userID uint, email, role string) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(userID, email, role, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func protectedRoute(router *gin.Engine, m *AuthMiddleware, handlers ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{m.Authenticate()}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email, "role": role})
	})
	router.GET("/test", chain...)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tokens := generateTestTokens(t, 1, "admin@gmp.uy", "admin")

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantErr  string
	}{
		{"bearer header", "Bearer " + tokens.AccessToken, "", http.StatusOK, ""},
		{"query token for websocket", "", tokens.AccessToken, http.StatusOK, ""},
		{"missing token", "", "", http.StatusUnauthorized, apperrors.AuthUnauthorized},
		{"bad scheme", "Token " + tokens.AccessToken, "", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
		{"refresh token", "Bearer " + tokens.RefreshToken, "", http.StatusUnauthorized, apperrors.AuthTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupMiddlewareTest(nil)
			protectedRoute(router, m)

			url := "/test"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorCode(t, w))
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(1), body["user_id"])
			assert.Equal(t, "admin@gmp.uy", body["email"])
			assert.Equal(t, "admin", body["role"])
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokens, err := util.GenerateTokenPair(1, "admin@gmp.uy", "admin", testJWTSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	router, m := setupMiddlewareTest(nil)
	protectedRoute(router, m)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthTokenExpired, errorCode(t, w))
}

func TestAuthMiddleware_RevokedToken(t *testing.T) {
	tokens := generateTestTokens(t, 1, "admin@gmp.uy", "admin")
	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	t.Run("revoked", func(t *testing.T) {
		router, m := setupMiddlewareTest(stubRevocations{revoked: map[string]bool{claims.ID: true}})
		protectedRoute(router, m)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperrors.AuthTokenRevoked, errorCode(t, w))
	})

	t.Run("blacklist unreachable", func(t *testing.T) {
		router, m := setupMiddlewareTest(stubRevocations{err: errors.New("redis down")})
		protectedRoute(router, m)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"other role rejected", "viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupMiddlewareTest(nil)
			protectedRoute(router, m, m.RequireRole("admin"))

			tokens := generateTestTokens(t, 7, "someone@gmp.uy", tt.role)
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, apperrors.AuthNotAdmin, errorCode(t, w))
			}
		})
	}
}

func TestAuthMiddleware_RequireRoleWithoutAuthenticate(t *testing.T) {
	router, m := setupMiddlewareTest(nil)
	router.GET("/test", m.RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetUserEmail(c)
	assert.False(t, ok)

	c.Set(UserIDKey, uint(3))
	c.Set(UserEmailKey, "admin@gmp.uy")
	c.Set(TokenKey, "raw")

	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(3), id)
	email, _ := GetUserEmail(c)
	assert.Equal(t, "admin@gmp.uy", email)
	token, _ := GetToken(c)
	assert.Equal(t, "raw", token)
}
