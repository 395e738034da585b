package models

// Métodos de pago aceptados por el checkout.
const (
	MetodoPagoATH     = "ath"
	MetodoPagoTarjeta = "tarjeta"
)

// CheckoutFormData es el registro único que comparten los cuatro pasos
// del checkout. Cada paso lo muta parcialmente; nada se valida aquí,
// el API PHP valida todo al momento de pagar.
type CheckoutFormData struct {
	NombreCompleto  string `json:"nombre_completo"`
	FechaNacimiento string `json:"fecha_nacimiento"` // YYYY-MM-DD
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`

	Pais         string `json:"pais"`
	Municipio    string `json:"municipio"`
	Direccion    string `json:"direccion"`
	Apartamento  string `json:"apartamento"`
	CodigoPostal string `json:"codigo_postal"`
	Telefono     string `json:"telefono"`

	// OrderNames mapea id de item del carrito → nombre del paciente para esa
	// orden. Las llaves pueden quedar huérfanas si el item se elimina del
	// carrito; las entradas obsoletas son inofensivas y nunca se limpian.
	OrderNames map[string]string `json:"order_names,omitempty"`

	MetodoPago string `json:"metodo_pago"` // "ath" | "tarjeta"
}

// NombreParaItem resuelve el nombre de paciente de un item: el override
// de order_names si existe, si no el nombre principal del formulario.
func (f CheckoutFormData) NombreParaItem(itemID string) string {
	if n, ok := f.OrderNames[itemID]; ok && n != "" {
		return n
	}
	return f.NombreCompleto
}
