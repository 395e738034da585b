package pago

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"drrecetas_back_end/internal/ath"
	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/checkout"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/payment"
	"drrecetas_back_end/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entornoSocket struct {
	wsURL    string
	llamadas *int32
}

func nuevoEntornoSocket(t *testing.T) *entornoSocket {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var llamadas int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&llamadas, 1)
		// El token llegó por el primer mensaje del socket, no por la URL
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":{"cp_code":"DR123","transaction_id":"TX1","status":"completed"}}`))
	}))
	t.Cleanup(upstream.Close)

	store := storage.NewMemoryStore()
	api := drapi.NewClient(upstream.URL)
	carritoSvc := cart.NewService(store)
	wizardSvc := checkout.NewService(store)

	_, _, err := carritoSvc.Add(context.Background(), "sid", models.CartItem{ID: "1", Precio: "25.00"})
	require.NoError(t, err)

	h := NewHandler(
		payment.NewCardService(api, store),
		ath.NewBridge(api, store),
		wizardSvc,
		carritoSvc,
		[]string{"https://doctorrecetas.com"},
	)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("session_id", "sid") })
	r.GET("/api/pago/ath/ws", h.ATHSocket)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &entornoSocket{
		wsURL:    "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/pago/ath/ws",
		llamadas: &llamadas,
	}
}

func conectar(t *testing.T, wsURL, origen string) (*websocket.Conn, error) {
	t.Helper()
	header := http.Header{}
	header.Set("Origin", origen)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

func TestATHSocketAutenticaConElPrimerMensaje(t *testing.T) {
	e := nuevoEntornoSocket(t)

	conn, err := conectar(t, e.wsURL, "https://doctorrecetas.com")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"token": "tok"}))

	var saludo map[string]any
	require.NoError(t, conn.ReadJSON(&saludo))
	assert.Equal(t, "conectado", saludo["tipo"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"ATH_SUCCESS","data":{"status":"completed","transaction_id":"TX1"}}`)))

	var evento map[string]any
	require.NoError(t, conn.ReadJSON(&evento))
	assert.Equal(t, "redirigir", evento["tipo"])
	assert.EqualValues(t, 1, atomic.LoadInt32(e.llamadas))
}

func TestATHSocketSinTokenCierra(t *testing.T) {
	e := nuevoEntornoSocket(t)

	conn, err := conectar(t, e.wsURL, "https://doctorrecetas.com")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"otra": "cosa"}))

	var respuesta map[string]any
	require.NoError(t, conn.ReadJSON(&respuesta))
	assert.Equal(t, "error", respuesta["tipo"])

	// El servidor cerró sin procesar nada
	var extra map[string]any
	assert.Error(t, conn.ReadJSON(&extra))
	assert.EqualValues(t, 0, atomic.LoadInt32(e.llamadas))
}

func TestATHSocketRechazaOrigenDesconocido(t *testing.T) {
	e := nuevoEntornoSocket(t)

	conn, err := conectar(t, e.wsURL, "https://evil.example.com")
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
}
