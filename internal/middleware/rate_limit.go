package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"drrecetas_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

const (
	loginMaxIntentos = 5
	loginCooldown    = 15 * time.Minute
)

// LoginRateLimit limita los intentos de login fallidos por email antes de
// reenviar las credenciales al API PHP. Solo los 401 cuentan; un login
// exitoso limpia el contador.
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Leer el body sin consumirlo
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		ctx := context.Background()
		intentosKey := "login_intentos:" + input.Email
		cooldownKey := "login_cooldown:" + input.Email

		if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
			ttl := database.Redis.TTL(ctx, cooldownKey).Val()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Demasiados intentos fallidos. Intenta en %d minutos", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		intentos, _ := database.Redis.Get(ctx, intentosKey).Int()
		if intentos >= loginMaxIntentos {
			database.Redis.Set(ctx, cooldownKey, "1", loginCooldown)
			database.Redis.Del(ctx, intentosKey)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Demasiados intentos fallidos. Intenta más tarde",
				"retry_after": int(loginCooldown.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()

		// Solo las credenciales rechazadas cuentan como intento
		if c.Writer.Status() == http.StatusUnauthorized {
			database.Redis.Incr(ctx, intentosKey)
			database.Redis.Expire(ctx, intentosKey, loginCooldown)
		} else if c.Writer.Status() == http.StatusOK {
			database.Redis.Del(ctx, intentosKey)
			database.Redis.Del(ctx, cooldownKey)
		}
	}
}
