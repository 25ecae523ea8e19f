package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filialpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const segredo = "segredo-de-teste"

func init() { gin.SetMode(gin.TestMode) }

func assinar(t *testing.T, claims jwt.MapClaims, chave string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(chave))
	require.NoError(t, err)
	return tok
}

func rotaProtegida(roles ...string) *gin.Engine {
	r := gin.New()
	r.GET("/p", JWTAuth(segredo), RequireRole(roles...), func(c *gin.Context) {
		cl := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"role": cl.Role, "filial_id": cl.FilialID})
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_SemToken(t *testing.T) {
	w := get(rotaProtegida("admin"), "/p", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_AssinaturaErrada(t *testing.T) {
	tok := assinar(t, jwt.MapClaims{"user_id": "x", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}, "outra")
	w := get(rotaProtegida("admin"), "/p", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_Expirado(t *testing.T) {
	tok := assinar(t, jwt.MapClaims{"user_id": "x", "role": "admin", "exp": time.Now().Add(-time.Minute).Unix()}, segredo)
	w := get(rotaProtegida("admin"), "/p", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tok := assinar(t, jwt.MapClaims{
		"user_id":   "u1",
		"role":      "vendedor",
		"filial_id": "f1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}, segredo)

	w := get(rotaProtegida("admin", "afiliado"), "/p", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(rotaProtegida("admin", "vendedor"), "/p", tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"vendedor","filial_id":"f1"}`, w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "/", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/conflito", func(c *gin.Context) { _ = c.Error(apierror.Conflito("código já existe")) })
	r.GET("/interno", func(c *gin.Context) { _ = c.Error(errors.New("pq: connection refused")) })
	r.GET("/envolvido", func(c *gin.Context) { _ = c.Error(apierror.Interno(errors.New("disk full"))) })

	w := get(r, "/conflito", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"detail":"código já existe","codigo":"CONFLITO"}`, w.Body.String())

	w = get(r, "/interno", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")

	w = get(r, "/envolvido", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })
	w := get(r, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestLimitador(t *testing.T) {
	l := &limitador{janelas: map[string]*janela{}, limite: 2, periodo: time.Minute}
	agora := time.Now()

	ok, _ := l.permitir("1.1.1.1", agora)
	assert.True(t, ok)
	ok, _ = l.permitir("1.1.1.1", agora)
	assert.True(t, ok)
	ok, _ = l.permitir("1.1.1.1", agora)
	assert.False(t, ok)
	ok, _ = l.permitir("2.2.2.2", agora)
	assert.True(t, ok, "limit is per key")

	ok, _ = l.permitir("1.1.1.1", agora.Add(2*time.Minute))
	assert.True(t, ok, "window resets")

	assert.Equal(t, 1, l.purgar(agora.Add(5*time.Minute)))
}

func TestLoginRateLimiter(t *testing.T) {
	r := gin.New()
	r.POST("/login", LoginRateLimiter(1), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(true, []string{"https://loja.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://loja.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://loja.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
