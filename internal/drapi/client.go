package drapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Client habla con el API PHP de doctorrecetas.com, el dueño real de
// cuentas, órdenes y cobros. Sin reintentos ni backoff: una llamada
// fallida se reporta al usuario, que reintenta a mano desde la UI.
type Client struct {
	base string
	http *http.Client
	cb   *gobreaker.CircuitBreaker[*Respuesta]
}

// Respuesta es la respuesta cruda del API. El que llama decide cómo
// interpretar el cuerpo (el clasificador de errores de pago necesita el
// texto crudo del servidor).
type Respuesta struct {
	Status int
	Body   []byte
}

// EsExitosa indica un status 2xx.
func (r *Respuesta) EsExitosa() bool {
	return r.Status >= 200 && r.Status < 300
}

func NewClient(base string) *Client {
	cb := gobreaker.NewCircuitBreaker[*Respuesta](gobreaker.Settings{
		Name:    "dr-api",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Solo fallos de transporte llegan aquí; los 4xx del API
			// se devuelven como Respuesta y no abren el breaker
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
		cb:   cb,
	}
}

func (c *Client) post(ctx context.Context, path, token string, query url.Values, payload any) (*Respuesta, error) {
	return c.cb.Execute(func() (*Respuesta, error) {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}

		endpoint := c.base + "/" + path
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error de red hacia %s: %w", path, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &Respuesta{Status: resp.StatusCode, Body: raw}, nil
	})
}

func (c *Client) get(ctx context.Context, path, token string) (*Respuesta, error) {
	return c.cb.Execute(func() (*Respuesta, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+path, nil)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("error de red hacia %s: %w", path, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &Respuesta{Status: resp.StatusCode, Body: raw}, nil
	})
}

// --- Pagos ---

// PagarRequest es el payload de autorización con tarjeta. Las llaves con
// [] son las que espera el backend PHP.
type PagarRequest struct {
	PqID         []string `json:"pq_id[]"`
	ANombreDe    []string `json:"anombre_de[]"`
	PqPrecio     string   `json:"pq_precio"`
	CardNumber   string   `json:"card_number"`
	CardExpMonth string   `json:"card_exp_month"`
	CardExpYear  string   `json:"card_exp_year"`
	CardCVC      string   `json:"card_cvc"`
	CardName     string   `json:"card_name"`
}

// Pagar autoriza un pago con tarjeta (POST /api/pagar.php).
func (c *Client) Pagar(ctx context.Context, token string, req PagarRequest) (*Respuesta, error) {
	return c.post(ctx, "pagar.php", token, nil, req)
}

// PagoATHRequest es la captura de un pago ATH Móvil: la respuesta cruda
// del widget más los metadatos de la orden.
type PagoATHRequest struct {
	Data         json.RawMessage `json:"data"`
	PqID         []string        `json:"pq_id[]"`
	ANombreDe    []string        `json:"anombre_de[]"`
	PqPrecio     string          `json:"pq_precio"`
	InyFecha     string          `json:"iny_fecha"`
	InyDireccion string          `json:"iny_direccion"`
}

// PagoATH captura un pago ATH Móvil (POST /api/pago_ath.php).
func (c *Client) PagoATH(ctx context.Context, token string, req PagoATHRequest) (*Respuesta, error) {
	return c.post(ctx, "pago_ath.php", token, nil, req)
}

// EnviarOrden despacha la orden ya pagada (POST /api/enviar_orden.php?token=).
func (c *Client) EnviarOrden(ctx context.Context, token, cpCode string) (*Respuesta, error) {
	q := url.Values{}
	q.Set("token", token)
	return c.post(ctx, "enviar_orden.php", token, q, map[string]string{"cp_code": cpCode})
}

// --- Cuenta y perfil (solo lectura, mismo patrón de pegamento HTTP) ---

// Login reenvía credenciales al API; la cuenta vive allá.
func (c *Client) Login(ctx context.Context, email, password string) (*Respuesta, error) {
	return c.post(ctx, "login.php", "", nil, map[string]string{
		"email":    email,
		"password": password,
	})
}

// Perfil trae el perfil guardado tal cual lo devuelva el API, sin
// normalizar: la hidratación del checkout se encarga de las variantes
// históricas de nombres de campo.
func (c *Client) Perfil(ctx context.Context, token string) (map[string]any, error) {
	resp, err := c.get(ctx, "perfil.php", token)
	if err != nil {
		return nil, err
	}
	if !resp.EsExitosa() {
		return nil, fmt.Errorf("perfil.php respondió %d", resp.Status)
	}

	var perfil map[string]any
	if err := json.Unmarshal(resp.Body, &perfil); err != nil {
		return nil, fmt.Errorf("perfil no es JSON: %w", err)
	}
	return perfil, nil
}

// Ordenes trae el historial de órdenes del usuario.
func (c *Client) Ordenes(ctx context.Context, token string) (*Respuesta, error) {
	return c.get(ctx, "mis_ordenes.php", token)
}

// Transacciones trae el historial de pagos del usuario.
func (c *Client) Transacciones(ctx context.Context, token string) (*Respuesta, error) {
	return c.get(ctx, "transacciones.php", token)
}

// Chat reenvía un mensaje al asistente remoto.
func (c *Client) Chat(ctx context.Context, token, mensaje string) (*Respuesta, error) {
	return c.post(ctx, "asistente.php", token, nil, map[string]string{"mensaje": mensaje})
}
