package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/payment"
	"drrecetas_back_end/internal/storage"
)

// ErrSinDatosOrden: no hay orden pendiente que finalizar, o el registro
// está incompleto. Se corta sin tocar la red.
var ErrSinDatosOrden = errors.New("no se encontraron datos de la orden")

// Notificador envía la confirmación al paciente (correo con QR y recibo).
// Es una interfaz para que los tests no manden correos.
type Notificador interface {
	EnviarConfirmacion(confirmacion models.Confirmacion, total float64)
}

// Service finaliza la orden después del pago: consume la orden pendiente,
// despacha contra enviar_orden.php y limpia carrito y registro en éxito.
type Service struct {
	api     *drapi.Client
	store   storage.Store
	carrito *cart.Service
	correo  Notificador // puede ser nil
}

func NewService(api *drapi.Client, store storage.Store, carrito *cart.Service, correo Notificador) *Service {
	return &Service{api: api, store: store, carrito: carrito, correo: correo}
}

type enviarOrdenRespuesta struct {
	Success         bool   `json:"success"`
	CpCode          string `json:"cp_code"`
	Email           string `json:"email"`
	OrdenesEnviadas int    `json:"ordenes_enviadas"`
	Mensaje         string `json:"mensaje"`
}

// Finalizar despacha la orden pendiente de la sesión. En cualquier camino
// de fallo el registro pendiente NO se borra: recargar la página de
// confirmación reintenta la finalización contra el mismo registro.
func (s *Service) Finalizar(ctx context.Context, sessionID string) (*models.Confirmacion, error) {
	pendiente, err := payment.LeerPendiente(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	// Registro ausente o incompleto: error inmediato, cero llamadas de red
	if pendiente == nil || pendiente.CpCode == "" || pendiente.Token == "" {
		return nil, ErrSinDatosOrden
	}

	resp, err := s.api.EnviarOrden(ctx, pendiente.Token, pendiente.CpCode)
	if err != nil {
		return nil, err
	}
	if !resp.EsExitosa() {
		return nil, fmt.Errorf("enviar_orden.php respondió %d: %.50s", resp.Status, resp.Body)
	}

	var parsed enviarOrdenRespuesta
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		// Cuerpo no-JSON de un 2xx: error de servidor con los primeros 50
		// caracteres del texto crudo como contexto de diagnóstico
		return nil, fmt.Errorf("respuesta inesperada del servidor: %.50s", resp.Body)
	}
	if !parsed.Success {
		if parsed.Mensaje != "" {
			return nil, fmt.Errorf("el servidor no pudo enviar la orden: %s", parsed.Mensaje)
		}
		return nil, fmt.Errorf("el servidor no pudo enviar la orden")
	}

	confirmacion := &models.Confirmacion{
		CpCode:          parsed.CpCode,
		Email:           parsed.Email,
		OrdenesEnviadas: parsed.OrdenesEnviadas,
	}
	if confirmacion.CpCode == "" {
		confirmacion.CpCode = pendiente.CpCode
	}

	// Éxito: el carrito y el registro pendiente se limpian; una recarga
	// posterior verá "no hay datos de orden"
	if err := s.carrito.Clear(ctx, sessionID); err != nil {
		log.Printf("⚠️ No se pudo vaciar el carrito de %s: %v", sessionID, err)
	}
	if err := payment.BorrarPendiente(ctx, s.store, sessionID); err != nil {
		log.Printf("⚠️ No se pudo borrar la orden pendiente de %s: %v", sessionID, err)
	}

	if s.correo != nil {
		go s.correo.EnviarConfirmacion(*confirmacion, pendiente.Total)
	}

	log.Printf("✅ Orden %s enviada (%d órdenes, confirmación a %s)",
		confirmacion.CpCode, confirmacion.OrdenesEnviadas, confirmacion.Email)
	return confirmacion, nil
}
