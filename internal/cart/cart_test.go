package cart

import (
	"context"
	"testing"

	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(storage.NewMemoryStore())
}

func TestAddRechazaDuplicados(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	item := models.CartItem{ID: "1", Titulo: "Certificado médico", Precio: "25.00"}

	added, items, err := s.Add(ctx, "sid", item)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, items, 1)

	// El mismo id otra vez: el carrito queda intacto, nada se fusiona
	added, items, err = s.Add(ctx, "sid", models.CartItem{ID: "1", Titulo: "Otro título", Precio: "99.00"})
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, items, 1)
	assert.Equal(t, "Certificado médico", items[0].Titulo)
	assert.Equal(t, "25.00", items[0].Precio)

	added, items, err = s.Add(ctx, "sid", models.CartItem{ID: "2", Precio: "15.50"})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, items, 2)
}

func TestTotalYRemove(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, _, err := s.Add(ctx, "sid", models.CartItem{ID: "1", Precio: "25.00"})
	require.NoError(t, err)
	_, _, err = s.Add(ctx, "sid", models.CartItem{ID: "2", Precio: "15.50"})
	require.NoError(t, err)

	items, err := s.Items(ctx, "sid")
	require.NoError(t, err)
	assert.InDelta(t, 40.50, Total(items), 0.001)

	items, err = s.Remove(ctx, "sid", "1")
	require.NoError(t, err)
	assert.InDelta(t, 15.50, Total(items), 0.001)

	// Remover un id ausente no es error y no cambia nada
	items, err = s.Remove(ctx, "sid", "no-existe")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTotalPrecioMalformado(t *testing.T) {
	items := []models.CartItem{
		{ID: "1", Precio: "10.00"},
		{ID: "2", Precio: "no-es-numero"},
	}
	assert.InDelta(t, 10.00, Total(items), 0.001)
}

func TestClear(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, _, err := s.Add(ctx, "sid", models.CartItem{ID: "1", Precio: "25.00"})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "sid"))

	items, err := s.Items(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCarritosPorSesionIndependientes(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, _, err := s.Add(ctx, "a", models.CartItem{ID: "1", Precio: "25.00"})
	require.NoError(t, err)

	items, err := s.Items(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, items)
}
