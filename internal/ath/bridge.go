package ath

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/models"
	"drrecetas_back_end/internal/payment"
	"drrecetas_back_end/internal/storage"
)

// Límites de caracteres del widget ATH Móvil para nombre y descripción
// de línea; se trunca por compatibilidad.
const (
	nombreMaxWidget      = 32
	descripcionMaxWidget = 120
)

// El guard de success sobrevive un rato largo: una entrega duplicada del
// mismo success tiene que ser no-op aunque llegue minutos después. Se
// llavea por transacción, así una segunda compra legítima en la misma
// sesión pasa sin problema.
const successGuardTTL = time.Hour

// Bridge maneja el camino de pago por ATH Móvil: configura el widget y
// reacciona a sus mensajes. Un success dispara exactamente un POST a
// pago_ath.php; cancel y expired notifican sin tocar el carrito.
type Bridge struct {
	api   *drapi.Client
	store storage.Store
}

func NewBridge(api *drapi.Client, store storage.Store) *Bridge {
	return &Bridge{api: api, store: store}
}

// WidgetConfig es lo que el documento embebido necesita para arrancar el
// script de checkout del tercero.
type WidgetConfig struct {
	Total  string       `json:"total"`
	Idioma string       `json:"idioma"`
	Items  []WidgetItem `json:"items"`
}

type WidgetItem struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Precio      string `json:"precio"`
	Cantidad    int    `json:"cantidad"`
}

// Config arma la configuración del widget con los límites de truncado.
func (b *Bridge) Config(items []models.CartItem, idioma string) WidgetConfig {
	cfg := WidgetConfig{
		Total:  fmt.Sprintf("%.2f", cart.Total(items)),
		Idioma: idioma,
	}
	for _, item := range items {
		cfg.Items = append(cfg.Items, WidgetItem{
			Nombre:      truncar(item.Titulo, nombreMaxWidget),
			Descripcion: truncar(item.Resumen, descripcionMaxWidget),
			Precio:      item.Precio,
			Cantidad:    1,
		})
	}
	return cfg
}

func truncar(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Evento es la reacción del host a un mensaje del widget, lista para
// reenviar a la página.
type Evento struct {
	Tipo    string               `json:"tipo"` // "redirigir" | "notificacion" | "modal"
	Mensaje string               `json:"mensaje,omitempty"`
	Modal   string               `json:"modal,omitempty"` // "abrir" | "cerrar"
	Orden   *models.PendingOrder `json:"orden,omitempty"`
}

type pagoATHRespuesta struct {
	Success bool `json:"success"`
	Data    struct {
		CpCode        string `json:"cp_code"`
		TransactionID string `json:"transaction_id"`
		Status        string `json:"status"`
	} `json:"data"`
}

// Handle procesa un mensaje ya decodificado del widget.
func (b *Bridge) Handle(ctx context.Context, sessionID, token string, form models.CheckoutFormData, items []models.CartItem, msg Message) (*Evento, error) {
	switch msg.Kind {
	case KindSuccess:
		return b.capturar(ctx, sessionID, token, form, items, msg.Data)

	case KindCancel:
		// El usuario canceló dentro del widget; el carrito queda intacto
		// y la página vuelve al selector de método de pago
		return &Evento{Tipo: "notificacion", Mensaje: "Cancelaste el pago con ATH Móvil."}, nil

	case KindExpired:
		return &Evento{Tipo: "notificacion", Mensaje: "El pago con ATH Móvil expiró. Intenta de nuevo."}, nil

	case KindModalOpen:
		return &Evento{Tipo: "modal", Modal: "abrir"}, nil

	case KindModalClose:
		return &Evento{Tipo: "modal", Modal: "cerrar"}, nil

	default:
		return nil, fmt.Errorf("mensaje sin manejar: %q", msg.Kind)
	}
}

// capturar envía la respuesta cruda del widget a pago_ath.php. El guard
// por transacción hace que la entrega duplicada de un mismo success sea
// no-op: la primera que llega gana.
func (b *Bridge) capturar(ctx context.Context, sessionID, token string, form models.CheckoutFormData, items []models.CartItem, data json.RawMessage) (*Evento, error) {
	var widget WidgetResponse
	if err := json.Unmarshal(data, &widget); err != nil || widget.TransactionID == "" {
		return nil, fmt.Errorf("payload de success sin transaction_id")
	}

	guardKey := "ath_procesando:" + sessionID + ":" + widget.TransactionID
	ok, err := b.store.SetNX(ctx, guardKey, "1", successGuardTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Printf("🔁 Success ATH duplicado (tx %s) para sesión %s, ignorado", widget.TransactionID, sessionID)
		return &Evento{Tipo: "notificacion", Mensaje: "Tu pago ya está en proceso."}, nil
	}

	req := drapi.PagoATHRequest{
		Data:         data,
		PqPrecio:     fmt.Sprintf("%.2f", cart.Total(items)),
		InyFecha:     time.Now().Format("2006-01-02 15:04:05"),
		InyDireccion: direccionCompleta(form),
	}
	for _, item := range items {
		req.PqID = append(req.PqID, item.ID)
		req.ANombreDe = append(req.ANombreDe, form.NombreParaItem(item.ID))
	}

	resp, err := b.api.PagoATH(ctx, token, req)
	if err != nil {
		// Fallo de transporte: se suelta el guard para que el usuario
		// pueda reintentar desde el widget
		b.store.Del(ctx, guardKey)
		log.Printf("❌ Error de transporte en pago_ath.php: %v", err)
		return &Evento{Tipo: "notificacion", Mensaje: payment.MensajeRed}, nil
	}

	if !resp.EsExitosa() {
		b.store.Del(ctx, guardKey)
		log.Printf("❌ pago_ath.php respondió %d: %s", resp.Status, resp.Body)
		return &Evento{Tipo: "notificacion", Mensaje: payment.ClasificarError(string(resp.Body))}, nil
	}

	var parsed pagoATHRespuesta
	if err := json.Unmarshal(resp.Body, &parsed); err != nil || !parsed.Success {
		b.store.Del(ctx, guardKey)
		log.Printf("❌ Respuesta inesperada de pago_ath.php: %.100s", resp.Body)
		return &Evento{Tipo: "notificacion", Mensaje: payment.MensajeGenerico}, nil
	}

	if parsed.Data.CpCode == "" {
		b.store.Del(ctx, guardKey)
		return &Evento{Tipo: "notificacion", Mensaje: payment.MensajeSinCodigo}, nil
	}

	pendiente := &models.PendingOrder{
		CpCode: parsed.Data.CpCode,
		Token:  token,
		Total:  cart.Total(items),
		Fecha:  req.InyFecha,
		Metodo: models.MetodoPagoATH,
	}
	if err := payment.GuardarPendiente(ctx, b.store, sessionID, pendiente); err != nil {
		// Sin registro pendiente la confirmación no tiene qué consumir;
		// se suelta el guard para que el success se pueda reprocesar
		b.store.Del(ctx, guardKey)
		return nil, err
	}

	log.Printf("📱 Pago ATH capturado: %s (tx %s)", pendiente.CpCode, parsed.Data.TransactionID)
	return &Evento{Tipo: "redirigir", Orden: pendiente}, nil
}

func direccionCompleta(form models.CheckoutFormData) string {
	dir := form.Direccion
	if form.Apartamento != "" {
		dir += " " + form.Apartamento
	}
	if form.Municipio != "" {
		dir += ", " + form.Municipio
	}
	if form.CodigoPostal != "" {
		dir += " " + form.CodigoPostal
	}
	return dir
}
