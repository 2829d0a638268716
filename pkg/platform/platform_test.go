package platform

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("COSTIMATE_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("COSTIMATE_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("COSTIMATE_TEST_MISSING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("COSTIMATE_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("COSTIMATE_TEST_INT", 7))

	t.Setenv("COSTIMATE_TEST_INT", "not a number")
	assert.Equal(t, 7, GetEnvInt("COSTIMATE_TEST_INT", 7))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("COSTIMATE_TEST_BOOL", "true")
	assert.True(t, GetEnvBool("COSTIMATE_TEST_BOOL", false))

	t.Setenv("COSTIMATE_TEST_BOOL", "1")
	assert.True(t, GetEnvBool("COSTIMATE_TEST_BOOL", false))

	t.Setenv("COSTIMATE_TEST_BOOL", "no")
	assert.False(t, GetEnvBool("COSTIMATE_TEST_BOOL", true))
}

func TestAPIKeyMiddleware(t *testing.T) {
	handler := APIKeyMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no key configured passes through", func(t *testing.T) {
		t.Setenv("COSTIMATE_API_KEY", "")
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		t.Setenv("COSTIMATE_API_KEY", "secret")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("matching key accepted", func(t *testing.T) {
		t.Setenv("COSTIMATE_API_KEY", "secret")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
