package pago

import (
	"net/http"

	"drrecetas_back_end/internal/ath"
	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/checkout"
	"drrecetas_back_end/internal/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	tarjeta  *payment.CardService
	bridge   *ath.Bridge
	wizard   *checkout.Service
	carrito  *cart.Service
	origenes []string
}

func NewHandler(tarjeta *payment.CardService, bridge *ath.Bridge, wizard *checkout.Service, carrito *cart.Service, origenes []string) *Handler {
	return &Handler{
		tarjeta:  tarjeta,
		bridge:   bridge,
		wizard:   wizard,
		carrito:  carrito,
		origenes: origenes,
	}
}

//
// 💳 POST /api/pago/tarjeta
//
func (h *Handler) Tarjeta(c *gin.Context) {
	sessionID := c.GetString("session_id")
	apiToken := c.GetString("api_token")
	ctx := c.Request.Context()

	var card payment.CardRequest
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	items, err := h.carrito.Items(ctx, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leyendo el carrito"})
		return
	}

	state, err := h.wizard.Current(ctx, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leyendo el checkout"})
		return
	}

	pendiente, err := h.tarjeta.Submit(ctx, sessionID, apiToken, state.Form, items, card)
	if err != nil {
		c.JSON(statusDePago(err), gin.H{"error": err.Error()})
		return
	}

	// La UI cierra el modal de tarjeta y navega a la confirmación, que
	// consumirá la orden pendiente
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"cp_code":   pendiente.CpCode,
		"redirigir": "/confirmacion",
	})
}

// statusDePago mapea el fallo de pago a un status HTTP. Solo los mensajes
// de precondición tienen códigos propios; el resto es 402.
func statusDePago(err error) int {
	perr, ok := err.(*payment.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch perr.Mensaje {
	case payment.MensajeSesion:
		return http.StatusUnauthorized
	case payment.MensajeFechaInvalida:
		return http.StatusBadRequest
	case payment.MensajeEnProceso:
		return http.StatusConflict
	default:
		return http.StatusPaymentRequired
	}
}

//
// 📱 GET /api/pago/ath/config
//
func (h *Handler) ATHConfig(c *gin.Context) {
	sessionID := c.GetString("session_id")

	items, err := h.carrito.Items(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leyendo el carrito"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El carrito está vacío"})
		return
	}

	idioma := c.DefaultQuery("idioma", "es")
	c.JSON(http.StatusOK, h.bridge.Config(items, idioma))
}
