package compra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/checkout"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entorno struct {
	router  *gin.Engine
	carrito *cart.Service
}

func nuevoEntorno() *entorno {
	gin.SetMode(gin.TestMode)
	store := storage.NewMemoryStore()
	carritoSvc := cart.NewService(store)
	wizardSvc := checkout.NewService(store)

	h := NewHandler(wizardSvc, carritoSvc, drapi.NewClient("http://127.0.0.1:0"))

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("session_id", "sid") })
	r.GET("/api/checkout", h.Estado)
	r.POST("/api/checkout/continuar", h.Continuar)
	r.POST("/api/checkout/atras", h.Atras)

	return &entorno{router: r, carrito: carritoSvc}
}

func (e *entorno) hacer(t *testing.T, method, path, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return parsed
}

func TestCarritoVacioCortaEnReview(t *testing.T) {
	e := nuevoEntorno()

	resp := e.hacer(t, http.MethodGet, "/api/checkout", "")
	assert.Equal(t, "carrito_vacio", resp["estado"])

	// Tampoco se avanza: el wizard nunca llega a payment sin items
	resp = e.hacer(t, http.MethodPost, "/api/checkout/continuar", `{}`)
	assert.Equal(t, "carrito_vacio", resp["estado"])

	resp = e.hacer(t, http.MethodGet, "/api/checkout", "")
	assert.Equal(t, "carrito_vacio", resp["estado"])
}

func TestRecorridoCompletoDelWizard(t *testing.T) {
	e := nuevoEntorno()
	ctx := context.Background()

	_, _, err := e.carrito.Add(ctx, "sid", models.CartItem{ID: "1", Precio: "25.00"})
	require.NoError(t, err)

	resp := e.hacer(t, http.MethodGet, "/api/checkout", "")
	assert.Equal(t, "activo", resp["estado"])
	assert.Equal(t, "review", resp["paso"])

	resp = e.hacer(t, http.MethodPost, "/api/checkout/continuar", `{"nombre_completo":"Ana Rivera"}`)
	assert.Equal(t, "personal", resp["paso"])

	resp = e.hacer(t, http.MethodPost, "/api/checkout/continuar", `{"nombre_completo":"Ana Rivera","fecha_nacimiento":"1990-05-12"}`)
	assert.Equal(t, "details", resp["paso"])

	resp = e.hacer(t, http.MethodPost, "/api/checkout/continuar", `{"nombre_completo":"Ana Rivera","metodo_pago":"tarjeta"}`)
	assert.Equal(t, "payment", resp["paso"])

	// Atrás retrocede exactamente un paso
	resp = e.hacer(t, http.MethodPost, "/api/checkout/atras", "")
	assert.Equal(t, "details", resp["paso"])
}
