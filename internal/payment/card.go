package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/storage"
)

// TTL de la orden pendiente: vive lo que una sesión de navegador.
const pendienteTTL = time.Hour

// Lock corto contra doble submit; se libera al terminar la llamada.
const procesandoTTL = 2 * time.Minute

// CardService maneja el camino de pago directo con tarjeta: valida
// precondiciones, arma el payload para pagar.php y clasifica la respuesta.
type CardService struct {
	api   *drapi.Client
	store storage.Store
}

func NewCardService(api *drapi.Client, store storage.Store) *CardService {
	return &CardService{api: api, store: store}
}

// CardRequest son los datos crudos de la tarjeta tal como los escribe el
// usuario en el modal.
type CardRequest struct {
	Numero      string `json:"numero"`
	Vencimiento string `json:"vencimiento"` // MM/YY
	CVC         string `json:"cvc"`
	Titular     string `json:"titular"`
}

type pagarRespuesta struct {
	Success bool `json:"success"`
	Data    struct {
		CpCode string `json:"cp_code"`
	} `json:"data"`
}

// Submit autoriza el pago con tarjeta. Precondiciones primero, sin tocar
// la red: token de sesión presente y fecha de vencimiento partible en
// MM/YY. En éxito escribe la orden pendiente que consumirá la página de
// confirmación. Sin reintentos automáticos: el usuario reenvía a mano.
func (s *CardService) Submit(ctx context.Context, sessionID, token string, form models.CheckoutFormData, items []models.CartItem, card CardRequest) (*models.PendingOrder, error) {
	if token == "" {
		return nil, nuevoError(MensajeSesion)
	}

	mes, anio, err := partirVencimiento(card.Vencimiento)
	if err != nil {
		return nil, nuevoError(MensajeFechaInvalida)
	}

	if len(items) == 0 {
		return nil, nuevoError(MensajeGenerico)
	}

	// Candado débil contra doble submit de la misma sesión
	lockKey := "pago_procesando:" + sessionID
	ok, err := s.store.SetNX(ctx, lockKey, "1", procesandoTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nuevoError(MensajeEnProceso)
	}
	defer s.store.Del(ctx, lockKey)

	req := drapi.PagarRequest{
		PqPrecio:     fmt.Sprintf("%.2f", cart.Total(items)),
		CardNumber:   strings.ReplaceAll(card.Numero, " ", ""),
		CardExpMonth: mes,
		CardExpYear:  anio,
		CardCVC:      card.CVC,
		CardName:     card.Titular,
	}
	for _, item := range items {
		req.PqID = append(req.PqID, item.ID)
		req.ANombreDe = append(req.ANombreDe, form.NombreParaItem(item.ID))
	}

	resp, err := s.api.Pagar(ctx, token, req)
	if err != nil {
		log.Printf("❌ Error de transporte en pagar.php: %v", err)
		return nil, nuevoError(MensajeRed)
	}

	if !resp.EsExitosa() {
		log.Printf("❌ pagar.php respondió %d: %s", resp.Status, resp.Body)
		return nil, nuevoError(ClasificarError(string(resp.Body)))
	}

	var parsed pagarRespuesta
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		log.Printf("❌ Respuesta 2xx de pagar.php no es JSON: %.100s", resp.Body)
		return nil, nuevoError(MensajeGenerico)
	}

	if !parsed.Success {
		return nil, nuevoError(ClasificarError(string(resp.Body)))
	}

	// 2xx con success pero sin código de confirmación: hueco de integridad
	// del backend, se trata como fallo con mensaje propio
	if parsed.Data.CpCode == "" {
		log.Printf("⚠️ pagar.php aprobó sin cp_code: %.100s", resp.Body)
		return nil, nuevoError(MensajeSinCodigo)
	}

	pendiente := &models.PendingOrder{
		CpCode: parsed.Data.CpCode,
		Token:  token,
		Total:  cart.Total(items),
		Fecha:  time.Now().Format("2006-01-02 15:04:05"),
		Metodo: models.MetodoPagoTarjeta,
	}
	if err := GuardarPendiente(ctx, s.store, sessionID, pendiente); err != nil {
		return nil, err
	}

	log.Printf("💳 Pago con tarjeta autorizado: %s ($%.2f)", pendiente.CpCode, pendiente.Total)
	return pendiente, nil
}

// partirVencimiento separa MM/YY; falta cualquiera de las dos mitades y
// la validación corta antes de cualquier llamada de red.
func partirVencimiento(vencimiento string) (mes, anio string, err error) {
	partes := strings.Split(vencimiento, "/")
	if len(partes) != 2 {
		return "", "", fmt.Errorf("vencimiento sin separador: %q", vencimiento)
	}
	mes = strings.TrimSpace(partes[0])
	anio = strings.TrimSpace(partes[1])
	if mes == "" || anio == "" {
		return "", "", fmt.Errorf("vencimiento incompleto: %q", vencimiento)
	}
	m, convErr := strconv.Atoi(mes)
	if convErr != nil || m < 1 || m > 12 {
		return "", "", fmt.Errorf("mes inválido: %q", mes)
	}
	return mes, anio, nil
}

// --- Orden pendiente (el análogo de sessionStorage["dr_order_data"]) ---

func pendienteKey(sessionID string) string {
	return "orden_pendiente:" + sessionID
}

// GuardarPendiente escribe el registro que la página de confirmación
// consumirá exactamente una vez.
func GuardarPendiente(ctx context.Context, store storage.Store, sessionID string, p *models.PendingOrder) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return store.Set(ctx, pendienteKey(sessionID), string(data), pendienteTTL)
}

// LeerPendiente devuelve la orden pendiente o nil si no hay.
func LeerPendiente(ctx context.Context, store storage.Store, sessionID string) (*models.PendingOrder, error) {
	data, err := store.Get(ctx, pendienteKey(sessionID))
	if err == storage.ErrNoEncontrado {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p models.PendingOrder
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// BorrarPendiente elimina el registro después de consumirlo.
func BorrarPendiente(ctx context.Context, store storage.Store, sessionID string) error {
	return store.Del(ctx, pendienteKey(sessionID))
}
