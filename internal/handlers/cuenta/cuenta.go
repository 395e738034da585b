package cuenta

import (
	"encoding/json"
	"log"
	"net/http"

	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/middleware"
	"drrecetas_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Handler cubre la cuenta del usuario: login reenviado al API PHP (que es
// dueño de las cuentas), lectura del perfil y el relay del asistente.
type Handler struct {
	api *drapi.Client
}

func NewHandler(api *drapi.Client) *Handler {
	return &Handler{api: api}
}

//
// 🔐 POST /api/auth/login
//
// Las credenciales se reenvían al API PHP; en éxito se emite el JWT de
// sesión que envuelve el token remoto (el viejo dr_token de localStorage).
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email y contraseña requeridos"})
		return
	}

	resp, err := h.api.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		log.Printf("❌ Error de transporte en login.php: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo contactar el servidor"})
		return
	}
	if !resp.EsExitosa() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	var parsed struct {
		Success bool           `json:"success"`
		Data    models.Usuario `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil || !parsed.Success || parsed.Data.Token == "" {
		log.Printf("❌ Respuesta de login inesperada: %.100s", resp.Body)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}

	jwt, err := middleware.GenerarJWT(parsed.Data.ID, parsed.Data.Email, parsed.Data.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generando la sesión"})
		return
	}

	log.Printf("✅ Login de %s", parsed.Data.Email)
	c.JSON(http.StatusOK, gin.H{
		"token": jwt,
		"user": gin.H{
			"id":     parsed.Data.ID,
			"nombre": parsed.Data.Nombre,
			"email":  parsed.Data.Email,
		},
	})
}

//
// 👤 GET /api/perfil
//
func (h *Handler) Perfil(c *gin.Context) {
	apiToken := c.GetString("api_token")
	if apiToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No autenticado"})
		return
	}

	perfil, err := h.api.Perfil(c.Request.Context(), apiToken)
	if err != nil {
		log.Printf("❌ Error consultando perfil: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo consultar el perfil"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"perfil": perfil})
}

//
// 💬 POST /api/chat
//
// Relay del widget de chat hacia el asistente remoto.
func (h *Handler) Chat(c *gin.Context) {
	var input struct {
		Mensaje string `json:"mensaje"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Mensaje == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensaje requerido"})
		return
	}

	resp, err := h.api.Chat(c.Request.Context(), c.GetString("api_token"), input.Mensaje)
	if err != nil {
		log.Printf("❌ Error de transporte en el asistente: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "El asistente no está disponible"})
		return
	}
	if !resp.EsExitosa() {
		c.JSON(http.StatusBadGateway, gin.H{"error": "El asistente no está disponible"})
		return
	}

	var datos json.RawMessage = resp.Body
	c.JSON(http.StatusOK, gin.H{"respuesta": datos})
}
