package carrito

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuevoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("session_id", "sid") })

	h := NewHandler(cart.NewService(storage.NewMemoryStore()))
	r.GET("/api/carrito", h.Get)
	r.POST("/api/carrito/agregar", h.Agregar)
	r.DELETE("/api/carrito/:id", h.Eliminar)
	r.DELETE("/api/carrito", h.Vaciar)
	return r
}

func hacer(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestAgregarYDuplicado(t *testing.T) {
	r := nuevoRouter()

	w, resp := hacer(t, r, http.MethodPost, "/api/carrito/agregar", `{"id":"1","titulo":"Certificado médico","precio":"25.00"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["items"], 1)

	// El duplicado responde 409 con el aviso para el diálogo y el carrito intacto
	w, resp = hacer(t, r, http.MethodPost, "/api/carrito/agregar", `{"id":"1","titulo":"Certificado médico","precio":"25.00"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, MensajeDuplicado, resp["error"])
	assert.Equal(t, true, resp["duplicado"])
	assert.Len(t, resp["items"], 1)
}

func TestGetTotalDerivado(t *testing.T) {
	r := nuevoRouter()

	hacer(t, r, http.MethodPost, "/api/carrito/agregar", `{"id":"1","precio":"25.00"}`)
	hacer(t, r, http.MethodPost, "/api/carrito/agregar", `{"id":"2","precio":"15.50"}`)

	w, resp := hacer(t, r, http.MethodGet, "/api/carrito", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 40.50, resp["total"].(float64), 0.001)
	assert.EqualValues(t, 2, resp["count"])

	w, resp = hacer(t, r, http.MethodDelete, "/api/carrito/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 15.50, resp["total"].(float64), 0.001)
}

func TestAgregarSinID(t *testing.T) {
	r := nuevoRouter()

	w, _ := hacer(t, r, http.MethodPost, "/api/carrito/agregar", `{"titulo":"sin id"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVaciar(t *testing.T) {
	r := nuevoRouter()

	hacer(t, r, http.MethodPost, "/api/carrito/agregar", `{"id":"1","precio":"25.00"}`)
	w, _ := hacer(t, r, http.MethodDelete, "/api/carrito", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, resp := hacer(t, r, http.MethodGet, "/api/carrito", "")
	assert.EqualValues(t, 0, resp["count"])
}
