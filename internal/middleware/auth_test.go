package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func token(t *testing.T, papel string, secret string) string {
	t.Helper()
	claims := &JWTClaims{
		UserID:   "u-1",
		Username: "maria",
		Papel:    papel,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{JWTAuth(testSecret)}, handlers...)
	r.GET("/protegido", append(chain, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})...)
	return r
}

func TestJWTAuth(t *testing.T) {
	r := protectedRouter()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"sem token", "", http.StatusUnauthorized},
		{"token de outro segredo", "Bearer " + token(t, "operador", "outro-segredo"), http.StatusUnauthorized},
		{"token valido", "Bearer " + token(t, "operador", testSecret), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequirePapel(t *testing.T) {
	r := protectedRouter(RequirePapel("gerente", "administrador"))

	req := httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "operador", testSecret))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "gerente", testSecret))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Behind JWTAuth the typed claims come back intact.
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ClaimsKey, &JWTClaims{UserID: "u-1", Username: "maria", Papel: "gerente"})
	claims := GetClaims(c)
	require.NotNil(t, claims)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "gerente", claims.Papel)

	// On an unauthenticated request the helper degrades to nil, never panics.
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetClaims(c))
}
