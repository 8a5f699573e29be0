package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avandra/account-service/pkg/helpers"
)

func authTestRouter(t *testing.T, jwtm *helpers.JWTManager, expect func(redismock.ClientMock)) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	if expect != nil {
		expect(mock)
	}

	r := gin.New()
	r.GET("/protected", Auth(rdb, jwtm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID")})
	})
	return r
}

func TestAuth(t *testing.T) {
	jwtm := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	token, _, err := jwtm.GenerateAccessToken("u1", "sid1")
	require.NoError(t, err)

	t.Run("missing cookie", func(t *testing.T) {
		r := authTestRouter(t, jwtm, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := authTestRouter(t, jwtm, nil)
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "not-a-jwt"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no active session", func(t *testing.T) {
		r := authTestRouter(t, jwtm, func(m redismock.ClientMock) {
			m.ExpectHGetAll(helpers.SessionKey("u1")).SetVal(map[string]string{})
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("superseded session id", func(t *testing.T) {
		r := authTestRouter(t, jwtm, func(m redismock.ClientMock) {
			m.ExpectHGetAll(helpers.SessionKey("u1")).SetVal(map[string]string{"sid": "other-sid"})
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token and session", func(t *testing.T) {
		r := authTestRouter(t, jwtm, func(m redismock.ClientMock) {
			m.ExpectHGetAll(helpers.SessionKey("u1")).SetVal(map[string]string{
				"sid":   "sid1",
				"email": "alice@example.com",
			})
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
	})
}
