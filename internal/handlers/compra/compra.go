package compra

import (
	"net/http"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/checkout"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// Handler expone el wizard de checkout: cuatro pasos lineales manejados
// por el servidor, con el corto-circuito de carrito vacío en review.
type Handler struct {
	wizard  *checkout.Service
	carrito *cart.Service
	api     *drapi.Client
}

func NewHandler(wizard *checkout.Service, carrito *cart.Service, api *drapi.Client) *Handler {
	return &Handler{wizard: wizard, carrito: carrito, api: api}
}

//
// 📋 GET /api/checkout
//
func (h *Handler) Estado(c *gin.Context) {
	sessionID := c.GetString("session_id")
	ctx := c.Request.Context()

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

	// Carrito vacío en review: vista terminal de carrito vacío, ningún
	// paso del wizard se renderiza
	if state.Step == checkout.StepReview && len(items) == 0 {
		c.JSON(http.StatusOK, gin.H{"estado": "carrito_vacio"})
		return
	}

	// Hidratación única y best-effort desde el perfil guardado, solo si
	// hay sesión y el formulario sigue virgen
	if apiToken := c.GetString("api_token"); apiToken != "" && state.Form.NombreCompleto == "" {
		if perfil, err := h.api.Perfil(ctx, apiToken); err == nil {
			state, err = h.wizard.SetForm(ctx, sessionID, checkout.HidratarFormulario(perfil))
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error guardando el checkout"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"estado": "activo",
		"paso":   state.Step,
		"form":   state.Form,
		"items":  items,
		"total":  cart.Total(items),
	})
}

//
// ➡️ POST /api/checkout/continuar
//
func (h *Handler) Continuar(c *gin.Context) {
	sessionID := c.GetString("session_id")
	ctx := c.Request.Context()

	var form models.CheckoutFormData
	if err := c.ShouldBindJSON(&form); err != nil {
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

	// Con el carrito vacío no se avanza desde review: el wizard nunca
	// llega a payment por navegación normal sin items
	if state.Step == checkout.StepReview && len(items) == 0 {
		c.JSON(http.StatusOK, gin.H{"estado": "carrito_vacio"})
		return
	}

	state, err = h.wizard.Continue(ctx, sessionID, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error guardando el checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"estado": "activo", "paso": state.Step, "form": state.Form})
}

//
// ⬅️ POST /api/checkout/atras
//
func (h *Handler) Atras(c *gin.Context) {
	sessionID := c.GetString("session_id")

	state, err := h.wizard.Back(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error guardando el checkout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"estado": "activo", "paso": state.Step, "form": state.Form})
}
