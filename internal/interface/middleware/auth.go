package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/avandra/account-service/pkg/helpers"
	"github.com/avandra/account-service/pkg/response"
)

// Auth validates the access token cookie and ensures an active session exists
// in Redis with a matching session id. Sets userID and userEmail on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError[any](c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError[any](c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		key := helpers.SessionKey(claims.UserID)
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError[any](c, http.StatusUnauthorized, "session not found", nil)
			return
		}
		if data["sid"] != claims.SessionID {
			response.AbortError[any](c, http.StatusUnauthorized, "session superseded", nil)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", data["email"])
		c.Next()
	}
}
