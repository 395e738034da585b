package checkout

import (
	"context"
	"encoding/json"
	"time"

	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/storage"
)

// Step es el paso actual del checkout. Orden lineal estricto, sin saltos;
// la posición no se persiste entre visitas al carrito: cada sesión de
// checkout arranca en StepReview.
type Step string

const (
	StepReview   Step = "review"
	StepPersonal Step = "personal"
	StepDetails  Step = "details"
	StepPayment  Step = "payment"
)

var stepOrder = []Step{StepReview, StepPersonal, StepDetails, StepPayment}

func (s Step) index() int {
	for i, step := range stepOrder {
		if step == s {
			return i
		}
	}
	return 0
}

// Next avanza exactamente un paso; en payment se queda en payment.
func (s Step) Next() Step {
	i := s.index()
	if i < len(stepOrder)-1 {
		return stepOrder[i+1]
	}
	return s
}

// Prev retrocede exactamente un paso; en review se queda en review.
func (s Step) Prev() Step {
	i := s.index()
	if i > 0 {
		return stepOrder[i-1]
	}
	return s
}

// State es el estado de la sesión de checkout: el paso actual más el
// registro de formulario que los cuatro pasos mutan en sitio.
type State struct {
	Step Step                    `json:"step"`
	Form models.CheckoutFormData `json:"form"`
}

// La sesión de checkout muere con la pestaña; una hora de TTL es el
// equivalente del lado servidor.
const checkoutTTL = time.Hour

type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

func key(sessionID string) string {
	return "checkout:" + sessionID
}

// Current devuelve el estado actual; si no existe, arranca uno nuevo en review.
func (s *Service) Current(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.store.Get(ctx, key(sessionID))
	if err == storage.ErrNoEncontrado {
		return &State{Step: StepReview}, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Continue aplica los cambios del paso actual al formulario y avanza un
// paso. El controlador no valida campos: el API PHP valida todo al pagar.
func (s *Service) Continue(ctx context.Context, sessionID string, form models.CheckoutFormData) (*State, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Form = form
	state.Step = state.Step.Next()

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Back retrocede un paso sin tocar el formulario.
func (s *Service) Back(ctx context.Context, sessionID string) (*State, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Step = state.Step.Prev()

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SetForm guarda el formulario sin mover el paso (hidratación de perfil).
func (s *Service) SetForm(ctx context.Context, sessionID string, form models.CheckoutFormData) (*State, error) {
	state, err := s.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.Form = form

	if err := s.save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Reset descarta la sesión de checkout.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.store.Del(ctx, key(sessionID))
}

func (s *Service) save(ctx context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key(sessionID), string(data), checkoutTTL)
}
