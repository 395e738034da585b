package cart

import (
	"context"
	"encoding/json"
	"time"

	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/storage"
)

// El carrito sobrevive indefinidamente entre visitas, igual que la llave
// dr-recetas-cart que usaba el frontend en localStorage.
const cartTTL = 30 * 24 * time.Hour

type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

func key(sessionID string) string {
	return "carrito:" + sessionID
}

// Items devuelve el carrito actual; un carrito inexistente es un carrito vacío.
func (s *Service) Items(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	data, err := s.store.Get(ctx, key(sessionID))
	if err == storage.ErrNoEncontrado {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add agrega un servicio al carrito. Si el id ya está presente el carrito
// queda intacto y se devuelve added=false: el duplicado se avisa al
// usuario, nunca se fusiona ni se incrementa cantidad.
func (s *Service) Add(ctx context.Context, sessionID string, item models.CartItem) (added bool, items []models.CartItem, err error) {
	items, err = s.Items(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}

	for _, existing := range items {
		if existing.ID == item.ID {
			return false, items, nil
		}
	}

	items = append(items, item)
	if err := s.save(ctx, sessionID, items); err != nil {
		return false, nil, err
	}
	return true, items, nil
}

// Remove filtra el item sin condición; un id ausente no es error.
func (s *Service) Remove(ctx context.Context, sessionID, itemID string) ([]models.CartItem, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}

	if err := s.save(ctx, sessionID, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// Clear vacía el carrito sin condición.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Del(ctx, key(sessionID))
}

// save persiste el arreglo completo en cada mutación; es el único
// mecanismo de durabilidad del dominio carrito.
func (s *Service) save(ctx context.Context, sessionID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key(sessionID), string(data), cartTTL)
}

// Total se deriva en cada lectura, nunca se guarda. Un precio malformado
// suma 0 en vez de envenenar el total con NaN.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.PrecioFloat()
	}
	return total
}
