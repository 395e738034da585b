package orden

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/order"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	confirmacion *order.Service
	api          *drapi.Client
}

func NewHandler(confirmacion *order.Service, api *drapi.Client) *Handler {
	return &Handler{confirmacion: confirmacion, api: api}
}

//
// ✅ POST /api/orden/confirmar
//
// La página de confirmación llama aquí al montar: loading → success|error,
// estados terminales sin transición de vuelta.
func (h *Handler) Confirmar(c *gin.Context) {
	sessionID := c.GetString("session_id")

	confirmacion, err := h.confirmacion.Finalizar(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, order.ErrSinDatosOrden) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No se encontraron datos de la orden"})
			return
		}
		log.Printf("❌ Error finalizando orden de %s: %v", sessionID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"cp_code":          confirmacion.CpCode,
		"email":            confirmacion.Email,
		"ordenes_enviadas": confirmacion.OrdenesEnviadas,
	})
}

//
// 📜 GET /api/orden/historial
//
func (h *Handler) Historial(c *gin.Context) {
	resp, ok := h.consultar(c, h.api.Ordenes, "historial")
	if !ok {
		return
	}

	var ordenes []models.Orden
	if err := json.Unmarshal(resp.Body, &ordenes); err != nil {
		log.Printf("❌ Historial con forma inesperada: %.100s", resp.Body)
		c.JSON(http.StatusBadGateway, gin.H{"error": "El servidor respondió con un formato inesperado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ordenes": ordenes})
}

//
// 💵 GET /api/transacciones
//
func (h *Handler) Transacciones(c *gin.Context) {
	resp, ok := h.consultar(c, h.api.Transacciones, "transacciones")
	if !ok {
		return
	}

	var transacciones []models.Transaccion
	if err := json.Unmarshal(resp.Body, &transacciones); err != nil {
		log.Printf("❌ Transacciones con forma inesperada: %.100s", resp.Body)
		c.JSON(http.StatusBadGateway, gin.H{"error": "El servidor respondió con un formato inesperado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transacciones": transacciones})
}

// consultar hace la lectura autenticada contra el API PHP; mismo patrón
// de pegamento HTTP para todas las vistas del perfil.
func (h *Handler) consultar(c *gin.Context, llamada func(ctx context.Context, token string) (*drapi.Respuesta, error), campo string) (*drapi.Respuesta, bool) {
	apiToken := c.GetString("api_token")
	if apiToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No autenticado"})
		return nil, false
	}

	resp, err := llamada(c.Request.Context(), apiToken)
	if err != nil {
		log.Printf("❌ Error consultando %s: %v", campo, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo consultar el servidor"})
		return nil, false
	}
	if !resp.EsExitosa() {
		c.JSON(resp.Status, gin.H{"error": "El servidor respondió con error"})
		return nil, false
	}
	return resp, true
}
