package middleware

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "dr_session"
	sessionKey  = "sid"
)

var sessionStore *sessions.CookieStore

// InitSessionStore configura la cookie de sesión de invitado que agrupa
// carrito, checkout y orden pendiente de un mismo navegador.
func InitSessionStore() {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		log.Fatal("❌ SESSION_SECRET faltante en .env")
	}

	sessionStore = sessions.NewCookieStore([]byte(secret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   os.Getenv("COOKIE_SECURE") == "true",
		SameSite: http.SameSiteLaxMode,
	}
}

// GuestSession garantiza un id de sesión por navegador y lo deja en el
// contexto como "session_id". No requiere login: el carrito funciona para
// invitados igual que el localStorage del frontend viejo.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := sessionStore.Get(c.Request, sessionName)

		sid, ok := session.Values[sessionKey].(string)
		if !ok || sid == "" {
			sid = uuid.NewString()
			session.Values[sessionKey] = sid
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Printf("⚠️ No se pudo guardar la cookie de sesión: %v", err)
			}
		}

		c.Set("session_id", sid)
		c.Next()
	}
}
