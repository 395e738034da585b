package carrito

import (
	"net/http"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// MensajeDuplicado es el aviso que la UI muestra en un diálogo cuando el
// servicio ya está en el carrito.
const MensajeDuplicado = "Este servicio ya está en tu carrito"

type Handler struct {
	carrito *cart.Service
}

func NewHandler(carrito *cart.Service) *Handler {
	return &Handler{carrito: carrito}
}

//
// 🛒 GET /api/carrito
//
func (h *Handler) Get(c *gin.Context) {
	sessionID := c.GetString("session_id")

	items, err := h.carrito.Items(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error leyendo el carrito"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": cart.Total(items),
		"count": len(items),
	})
}

//
// 🟢 POST /api/carrito/agregar
//
func (h *Handler) Agregar(c *gin.Context) {
	sessionID := c.GetString("session_id")

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos"})
		return
	}

	added, items, err := h.carrito.Add(c.Request.Context(), sessionID, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error guardando el carrito"})
		return
	}

	if !added {
		// Duplicado: el carrito queda intacto y la UI muestra el diálogo
		c.JSON(http.StatusConflict, gin.H{
			"error":     MensajeDuplicado,
			"duplicado": true,
			"items":     items,
			"total":     cart.Total(items),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Servicio agregado al carrito",
		"items":   items,
		"total":   cart.Total(items),
	})
}

//
// ❌ DELETE /api/carrito/:id
//
func (h *Handler) Eliminar(c *gin.Context) {
	sessionID := c.GetString("session_id")
	itemID := c.Param("id")

	items, err := h.carrito.Remove(c.Request.Context(), sessionID, itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error guardando el carrito"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Servicio eliminado del carrito",
		"items":   items,
		"total":   cart.Total(items),
	})
}

//
// 🧹 DELETE /api/carrito
//
func (h *Handler) Vaciar(c *gin.Context) {
	sessionID := c.GetString("session_id")

	if err := h.carrito.Clear(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error vaciando el carrito"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Carrito vaciado con éxito"})
}
