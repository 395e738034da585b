package order

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/payment"
	"drrecetas_back_end/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entorno struct {
	store    *storage.MemoryStore
	carrito  *cart.Service
	servicio *Service
	llamadas *int32
}

func nuevoEntorno(t *testing.T, status int, body string) *entorno {
	t.Helper()
	var llamadas int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&llamadas, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	carrito := cart.NewService(store)
	return &entorno{
		store:    store,
		carrito:  carrito,
		servicio: NewService(drapi.NewClient(srv.URL), store, carrito, nil),
		llamadas: &llamadas,
	}
}

func (e *entorno) conPendiente(t *testing.T, p models.PendingOrder) {
	t.Helper()
	require.NoError(t, payment.GuardarPendiente(context.Background(), e.store, "sid", &p))
}

func TestFinalizarSinRegistroNoTocaLaRed(t *testing.T) {
	e := nuevoEntorno(t, 200, `{"success":true}`)

	_, err := e.servicio.Finalizar(context.Background(), "sid")
	assert.ErrorIs(t, err, ErrSinDatosOrden)
	assert.EqualValues(t, 0, atomic.LoadInt32(e.llamadas))
}

func TestFinalizarRegistroIncompletoNoTocaLaRed(t *testing.T) {
	casos := []models.PendingOrder{
		{CpCode: "DR123"},       // sin token
		{Token: "tok"},          // sin cp_code
		{CpCode: "", Token: ""}, // vacío
	}
	for _, p := range casos {
		e := nuevoEntorno(t, 200, `{"success":true}`)
		e.conPendiente(t, p)

		_, err := e.servicio.Finalizar(context.Background(), "sid")
		assert.ErrorIs(t, err, ErrSinDatosOrden)
		assert.EqualValues(t, 0, atomic.LoadInt32(e.llamadas))
	}
}

func TestFinalizarExitosoLimpiaCarritoYRegistro(t *testing.T) {
	e := nuevoEntorno(t, 200, `{"success":true,"cp_code":"DR123","email":"a@b.com","ordenes_enviadas":1}`)
	ctx := context.Background()

	_, _, err := e.carrito.Add(ctx, "sid", models.CartItem{ID: "1", Precio: "25.00"})
	require.NoError(t, err)
	e.conPendiente(t, models.PendingOrder{CpCode: "DR123", Token: "tok", Total: 25})

	confirmacion, err := e.servicio.Finalizar(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "DR123", confirmacion.CpCode)
	assert.Equal(t, "a@b.com", confirmacion.Email)
	assert.Equal(t, 1, confirmacion.OrdenesEnviadas)

	items, err := e.carrito.Items(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, items)

	pendiente, err := payment.LeerPendiente(ctx, e.store, "sid")
	require.NoError(t, err)
	assert.Nil(t, pendiente)

	// Una recarga después de consumir el registro: "no hay datos de orden"
	_, err = e.servicio.Finalizar(ctx, "sid")
	assert.ErrorIs(t, err, ErrSinDatosOrden)
}

func TestFinalizarFallidoConservaElRegistro(t *testing.T) {
	e := nuevoEntorno(t, http.StatusBadGateway, "upstream timeout while dispatching order to pharmacy system")
	ctx := context.Background()

	e.conPendiente(t, models.PendingOrder{CpCode: "DR123", Token: "tok"})

	_, err := e.servicio.Finalizar(ctx, "sid")
	require.Error(t, err)
	// El diagnóstico lleva como máximo los primeros 50 caracteres del crudo
	assert.Contains(t, err.Error(), "upstream timeout")
	assert.NotContains(t, err.Error(), "pharmacy system")

	// El registro sigue ahí: recargar reintenta la finalización
	pendiente, errLeer := payment.LeerPendiente(ctx, e.store, "sid")
	require.NoError(t, errLeer)
	require.NotNil(t, pendiente)
	assert.Equal(t, "DR123", pendiente.CpCode)
}

func TestFinalizarCuerpoNoJSON(t *testing.T) {
	e := nuevoEntorno(t, 200, "<html><body>Fatal error: Uncaught PDOException in /var/www/api/enviar_orden.php</body></html>")
	ctx := context.Background()

	e.conPendiente(t, models.PendingOrder{CpCode: "DR123", Token: "tok"})

	_, err := e.servicio.Finalizar(ctx, "sid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "respuesta inesperada del servidor")
	// Solo los primeros 50 caracteres del cuerpo
	assert.NotContains(t, err.Error(), "enviar_orden.php")
}

func TestFinalizarSuccessFalse(t *testing.T) {
	e := nuevoEntorno(t, 200, `{"success":false,"mensaje":"orden ya enviada"}`)
	ctx := context.Background()

	e.conPendiente(t, models.PendingOrder{CpCode: "DR123", Token: "tok"})

	_, err := e.servicio.Finalizar(ctx, "sid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orden ya enviada")
}
