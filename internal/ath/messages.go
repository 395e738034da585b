package ath

import (
	"encoding/json"
	"fmt"
)

// El widget de ATH Móvil corre en un documento embebido que solo puede
// hablarnos por mensajes. El contrato de entrada es una unión etiquetada:
// nada que venga del widget se confía sin chequear la etiqueta y, para
// success, la forma del payload.

type Kind string

const (
	KindSuccess    Kind = "success"
	KindCancel     Kind = "cancel"
	KindExpired    Kind = "expired"
	KindModalOpen  Kind = "modal_open"
	KindModalClose Kind = "modal_close"
)

// Los scripts viejos del widget todavía emiten los tipos ATH_*; se
// normalizan a la unión etiquetada en el borde.
var legacyKinds = map[string]Kind{
	"ATH_SUCCESS":     KindSuccess,
	"ATH_CANCEL":      KindCancel,
	"ATH_EXPIRED":     KindExpired,
	"ATH_MODAL_OPEN":  KindModalOpen,
	"ATH_MODAL_CLOSE": KindModalClose,
}

// Message es un evento entrante ya validado.
type Message struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// WidgetResponse es la forma mínima que debe tener el payload de un
// success del widget.
type WidgetResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

type wireMessage struct {
	Kind Kind            `json:"kind"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode valida y normaliza un mensaje crudo del widget. Etiquetas
// desconocidas se rechazan; un success sin payload con forma válida
// también.
func Decode(raw []byte) (Message, error) {
	var wire wireMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Message{}, fmt.Errorf("mensaje no es JSON: %w", err)
	}

	kind := wire.Kind
	if kind == "" {
		kind = legacyKinds[wire.Type]
	}

	switch kind {
	case KindSuccess:
		var resp WidgetResponse
		if err := json.Unmarshal(wire.Data, &resp); err != nil {
			return Message{}, fmt.Errorf("payload de success inválido: %w", err)
		}
		if resp.Status == "" || resp.TransactionID == "" {
			return Message{}, fmt.Errorf("payload de success incompleto")
		}
		return Message{Kind: KindSuccess, Data: wire.Data}, nil
	case KindCancel, KindExpired, KindModalOpen, KindModalClose:
		return Message{Kind: kind}, nil
	default:
		return Message{}, fmt.Errorf("tipo de mensaje desconocido: %q / %q", wire.Kind, wire.Type)
	}
}

// OrigenPermitido chequea el origen contra la lista blanca. Los mensajes
// de orígenes desconocidos se descartan: el payload del iframe nunca se
// procesa sin verificar de dónde vino.
func OrigenPermitido(origen string, permitidos []string) bool {
	for _, p := range permitidos {
		if origen == p {
			return true
		}
	}
	return false
}
