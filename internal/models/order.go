package models

// PendingOrder es el registro efímero que se escribe justo después de una
// autorización de pago exitosa y que la página de confirmación consume una
// sola vez para despachar la orden. Debe traer cp_code y token, si no la
// finalización falla de inmediato sin tocar la red.
type PendingOrder struct {
	CpCode string  `json:"cp_code"`
	Token  string  `json:"token"`
	Total  float64 `json:"total"`
	Fecha  string  `json:"fecha,omitempty"`
	Metodo string  `json:"metodo,omitempty"`
}

// Confirmacion es lo que devuelve el API al despachar la orden.
type Confirmacion struct {
	CpCode          string `json:"cp_code"`
	Email           string `json:"email"`
	OrdenesEnviadas int    `json:"ordenes_enviadas"`
}

// Orden es una entrada del historial de órdenes del perfil (solo lectura,
// viene tal cual del API PHP).
type Orden struct {
	CpCode   string `json:"cp_code"`
	Fecha    string `json:"fecha"`
	Estado   string `json:"estado"`
	Total    string `json:"total"`
	Servicio string `json:"servicio,omitempty"`
	ANombre  string `json:"anombre_de,omitempty"`
}

// Transaccion es una entrada del historial de pagos del perfil.
type Transaccion struct {
	TransactionID string `json:"transaction_id"`
	Fecha         string `json:"fecha"`
	Monto         string `json:"monto"`
	Metodo        string `json:"metodo"`
	Estado        string `json:"estado"`
}
