package checkout

import (
	"context"
	"testing"

	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdenLinealDePasos(t *testing.T) {
	assert.Equal(t, StepPersonal, StepReview.Next())
	assert.Equal(t, StepDetails, StepPersonal.Next())
	assert.Equal(t, StepPayment, StepDetails.Next())
	// El último paso no se pasa de largo
	assert.Equal(t, StepPayment, StepPayment.Next())

	assert.Equal(t, StepDetails, StepPayment.Prev())
	assert.Equal(t, StepPersonal, StepDetails.Prev())
	assert.Equal(t, StepReview, StepPersonal.Prev())
	// El primer paso no retrocede
	assert.Equal(t, StepReview, StepReview.Prev())
}

func TestSesionNuevaArrancaEnReview(t *testing.T) {
	s := NewService(storage.NewMemoryStore())

	state, err := s.Current(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
}

func TestContinueAvanzaYGuardaFormulario(t *testing.T) {
	s := NewService(storage.NewMemoryStore())
	ctx := context.Background()

	form := models.CheckoutFormData{NombreCompleto: "Ana Rivera"}
	state, err := s.Continue(ctx, "sid", form)
	require.NoError(t, err)
	assert.Equal(t, StepPersonal, state.Step)

	// El estado persiste dentro de la sesión
	state, err = s.Current(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, StepPersonal, state.Step)
	assert.Equal(t, "Ana Rivera", state.Form.NombreCompleto)

	// Hasta payment y ni un paso más
	for i := 0; i < 5; i++ {
		state, err = s.Continue(ctx, "sid", state.Form)
		require.NoError(t, err)
	}
	assert.Equal(t, StepPayment, state.Step)
}

func TestBackNoTocaElFormulario(t *testing.T) {
	s := NewService(storage.NewMemoryStore())
	ctx := context.Background()

	_, err := s.Continue(ctx, "sid", models.CheckoutFormData{NombreCompleto: "Ana Rivera"})
	require.NoError(t, err)

	state, err := s.Back(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
	assert.Equal(t, "Ana Rivera", state.Form.NombreCompleto)
}

func TestResetDescartaLaSesion(t *testing.T) {
	s := NewService(storage.NewMemoryStore())
	ctx := context.Background()

	_, err := s.Continue(ctx, "sid", models.CheckoutFormData{})
	require.NoError(t, err)
	require.NoError(t, s.Reset(ctx, "sid"))

	state, err := s.Current(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, StepReview, state.Step)
}

func TestNombreParaItem(t *testing.T) {
	form := models.CheckoutFormData{
		NombreCompleto: "Ana Rivera",
		OrderNames:     map[string]string{"2": "Luis Rivera"},
	}
	assert.Equal(t, "Ana Rivera", form.NombreParaItem("1"))
	assert.Equal(t, "Luis Rivera", form.NombreParaItem("2"))
	// Entradas obsoletas de ids que ya no están en el carrito son inofensivas
	assert.Equal(t, "Ana Rivera", form.NombreParaItem("99"))
}
