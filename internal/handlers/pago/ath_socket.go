package pago

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"drrecetas_back_end/internal/ath"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ATHSocket es el canal por donde la página del checkout nos reenvía los
// mensajes del widget ATH Móvil y recibe la reacción del host (abrir o
// cerrar el lightbox, notificar, redirigir a confirmación).
//
// GET /api/pago/ath/ws — el primer mensaje del socket autentica con el
// token del API ({"token":"..."}); el token nunca viaja en la URL para
// que no quede en los logs de acceso.
func (h *Handler) ATHSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		// Lista blanca de orígenes: mensajes de cualquier otro lado se
		// rechazan en el handshake, nunca se procesan
		CheckOrigin: func(r *http.Request) bool {
			return ath.OrigenPermitido(r.Header.Get("Origin"), h.origenes)
		},
	}

	sessionID := c.GetString("session_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Error upgrade WebSocket ATH: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &auth); err != nil || auth.Token == "" {
		conn.WriteJSON(gin.H{"tipo": "error", "mensaje": "Autenticación requerida"})
		return
	}
	apiToken := auth.Token

	conn.WriteJSON(gin.H{"tipo": "conectado"})

	// El orden de los mensajes del widget no está garantizado respecto al
	// estado del host; cada mensaje se procesa completo antes del próximo
	// y el guard del bridge absorbe los success duplicados
	for {
		conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := ath.Decode(raw)
		if err != nil {
			log.Printf("⚠️ Mensaje ATH inválido descartado: %v", err)
			conn.WriteJSON(gin.H{"tipo": "error", "mensaje": "Mensaje inválido"})
			continue
		}

		ctx := c.Request.Context()
		items, err := h.carrito.Items(ctx, sessionID)
		if err != nil {
			conn.WriteJSON(gin.H{"tipo": "error", "mensaje": "Error leyendo el carrito"})
			continue
		}
		state, err := h.wizard.Current(ctx, sessionID)
		if err != nil {
			conn.WriteJSON(gin.H{"tipo": "error", "mensaje": "Error leyendo el checkout"})
			continue
		}

		evento, err := h.bridge.Handle(ctx, sessionID, apiToken, state.Form, items, msg)
		if err != nil {
			log.Printf("❌ Error manejando mensaje ATH: %v", err)
			conn.WriteJSON(gin.H{"tipo": "error", "mensaje": "Error procesando el pago"})
			continue
		}

		if err := conn.WriteJSON(evento); err != nil {
			log.Printf("❌ Error envío WebSocket ATH: %v", err)
			return
		}
	}
}
