package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/learn2pay/backend/internal/application/identity"
	"github.com/learn2pay/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestTokenIssuer() *identityapp.TokenIssuer {
	return identityapp.NewTokenIssuer("test-secret-key-at-least-32-chars", 15*time.Minute)
}

func newTestToken(t *testing.T, tokens *identityapp.TokenIssuer) (string, *identity.InstituteUser) {
	t.Helper()
	user, err := identity.NewInstituteUser(
		uuid.New(),
		"Asha Verma",
		"asha@sunrise.edu",
		"+91-9800000010",
		"secret123",
		identity.RoleAccountant,
		"",
	)
	require.NoError(t, err)

	signed, _, err := tokens.Issue(user)
	require.NoError(t, err)
	return signed, user
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	tokens := newTestTokenIssuer()
	signed, user := newTestToken(t, tokens)

	router := gin.New()
	router.Use(JWTAuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		assert.NotNil(t, claims)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.InstituteID, claims.InstituteID)
		assert.Equal(t, user.ID.String(), GetJWTUserID(c))
		assert.Equal(t, user.InstituteID.String(), GetJWTInstituteID(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	tokens := newTestTokenIssuer()

	router := gin.New()
	router.Use(JWTAuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuthMiddlewareInvalidHeaderFormat(t *testing.T) {
	tokens := newTestTokenIssuer()
	signed, _ := newTestToken(t, tokens)

	router := gin.New()
	router.Use(JWTAuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Token "+signed)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	tokens := newTestTokenIssuer()

	router := gin.New()
	router.Use(JWTAuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddlewareWrongSecret(t *testing.T) {
	tokens := newTestTokenIssuer()
	other := identityapp.NewTokenIssuer("another-secret-key-32-characters!", 15*time.Minute)
	signed, _ := newTestToken(t, other)

	router := gin.New()
	router.Use(JWTAuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddlewareSkipPaths(t *testing.T) {
	tokens := newTestTokenIssuer()

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		Tokens:    tokens,
		SkipPaths: []string{"/api/v1/institute-users/login"},
	}))
	router.POST("/api/v1/institute-users/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/institute-users/login", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddlewareSkipPathPrefixes(t *testing.T) {
	tokens := newTestTokenIssuer()

	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		Tokens:           tokens,
		SkipPathPrefixes: []string{"/public"},
	}))
	router.GET("/public/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/public/info", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	tokens := newTestTokenIssuer()
	signed, user := newTestToken(t, tokens)

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})

	t.Run("without token the request still passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"user_id":""`)
	})

	t.Run("with token the claims are attached", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), user.ID.String())
	})
}
