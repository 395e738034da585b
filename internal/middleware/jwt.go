package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// AuthRequired valida el JWT de sesión y deja en el contexto el user_id,
// el email y el token del API PHP (api_token) que los handlers reenvían
// como Bearer al backend remoto.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseClaims(c)
		if !ok {
			c.Abort()
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("email", claims["email"])
		if apiToken, ok := claims["dr_token"].(string); ok {
			c.Set("api_token", apiToken)
		}

		c.Next()
	}
}

// AuthOptional intenta poblar el contexto desde el JWT pero nunca corta:
// el checkout hidrata el perfil si hay sesión y sigue vacío si no.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, ok := parseClaimsSilencioso(c); ok {
				c.Set("user_id", claims["user_id"])
				c.Set("email", claims["email"])
				if apiToken, ok := claims["dr_token"].(string); ok {
					c.Set("api_token", apiToken)
				}
			}
		}
		c.Next()
	}
}

func parseClaims(c *gin.Context) (jwt.MapClaims, bool) {
	claims, ok := parseClaimsSilencioso(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Tu sesión expiró. Inicia sesión de nuevo."})
	}
	return claims, ok
}

func parseClaimsSilencioso(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return nil, false
		}
	}

	return claims, true
}

// GenerarJWT emite el JWT de sesión que envuelve el token del API PHP.
func GenerarJWT(userID, email, apiToken string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"email":    email,
		"dr_token": apiToken,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}
