package routes

import (
	"drrecetas_back_end/internal/handlers/carrito"
	"drrecetas_back_end/internal/handlers/compra"
	"drrecetas_back_end/internal/handlers/cuenta"
	"drrecetas_back_end/internal/handlers/orden"
	"drrecetas_back_end/internal/handlers/pago"
	"drrecetas_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers agrupa los handlers ya construidos en el composition root.
type Handlers struct {
	Carrito *carrito.Handler
	Compra  *compra.Handler
	Pago    *pago.Handler
	Orden   *orden.Handler
	Cuenta  *cuenta.Handler
}

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")
	api.Use(middleware.GuestSession())

	// Cuenta
	api.POST("/auth/login", middleware.LoginRateLimit(), h.Cuenta.Login)
	api.GET("/perfil", middleware.AuthRequired(), h.Cuenta.Perfil)
	api.POST("/chat", middleware.AuthOptional(), h.Cuenta.Chat)

	// Carrito (funciona para invitados, igual que el localStorage viejo)
	api.GET("/carrito", h.Carrito.Get)
	api.POST("/carrito/agregar", h.Carrito.Agregar)
	api.DELETE("/carrito/:id", h.Carrito.Eliminar)
	api.DELETE("/carrito", h.Carrito.Vaciar)

	// Checkout (la hidratación de perfil es opcional)
	api.GET("/checkout", middleware.AuthOptional(), h.Compra.Estado)
	api.POST("/checkout/continuar", h.Compra.Continuar)
	api.POST("/checkout/atras", h.Compra.Atras)

	// Pago (AuthOptional: con sesión vencida el servicio responde con su
	// propio mensaje en vez del 401 genérico)
	api.POST("/pago/tarjeta", middleware.AuthOptional(), h.Pago.Tarjeta)
	api.GET("/pago/ath/config", h.Pago.ATHConfig)
	api.GET("/pago/ath/ws", h.Pago.ATHSocket)

	// Orden
	api.POST("/orden/confirmar", h.Orden.Confirmar)
	api.GET("/orden/historial", middleware.AuthRequired(), h.Orden.Historial)
	api.GET("/transacciones", middleware.AuthRequired(), h.Orden.Transacciones)
}
