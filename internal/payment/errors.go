package payment

import "strings"

// Mensajes amigables para el usuario. El API PHP devuelve texto crudo en
// inglés o español según el procesador; la clasificación es por substring
// contra una tabla de reglas para poder mapear textos nuevos del backend
// sin tocar los call sites.

const (
	MensajeRechazada     = "Tu tarjeta fue rechazada. Verifica los datos o intenta con otra tarjeta."
	MensajeFondos        = "La tarjeta no tiene fondos suficientes para completar el pago."
	MensajeExpirada      = "La tarjeta está expirada. Intenta con otra tarjeta."
	MensajeInvalida      = "El número de tarjeta no es válido. Revísalo e intenta de nuevo."
	MensajeCVC           = "El código de seguridad (CVC) no es válido."
	MensajeRed           = "Hubo un problema de conexión. Verifica tu internet e intenta de nuevo."
	MensajeServidor      = "El servidor de pagos tuvo un problema. Intenta de nuevo en unos minutos."
	MensajeGenerico      = "No pudimos procesar tu pago. Intenta de nuevo."
	MensajeSinCodigo     = "El pago fue aprobado pero no recibimos el código de confirmación. Comunícate con nosotros antes de volver a pagar."
	MensajeSesion        = "Tu sesión expiró. Inicia sesión de nuevo para completar tu compra."
	MensajeFechaInvalida = "La fecha de vencimiento no es válida. Usa el formato MM/YY."
	MensajeEnProceso     = "Ya hay un pago en proceso. Espera un momento."
)

type reglaError struct {
	mensaje  string
	patrones []string
}

// Primera regla que matchea gana; el orden importa (p.ej. "insufficient"
// antes que "card").
var reglasError = []reglaError{
	{MensajeFondos, []string{"insufficient", "fondos insuficientes", "sin fondos", "no funds"}},
	{MensajeExpirada, []string{"expired", "expirada", "vencida", "expiration"}},
	{MensajeCVC, []string{"cvc", "cvv", "security code", "codigo de seguridad", "código de seguridad"}},
	{MensajeRechazada, []string{"declined", "rechazada", "rechazado", "declinada", "do not honor"}},
	{MensajeInvalida, []string{"invalid card", "invalid number", "tarjeta invalida", "tarjeta inválida", "numero invalido", "número inválido"}},
	{MensajeRed, []string{"network", "timeout", "conexion", "conexión", "connection"}},
	{MensajeServidor, []string{"server", "servidor", "internal", "unavailable", "no disponible"}},
}

// ClasificarError mapea el texto crudo del servidor a uno de los mensajes
// amigables; si ninguna regla matchea devuelve el genérico.
func ClasificarError(crudo string) string {
	texto := strings.ToLower(crudo)
	for _, regla := range reglasError {
		for _, patron := range regla.patrones {
			if strings.Contains(texto, patron) {
				return regla.mensaje
			}
		}
	}
	return MensajeGenerico
}

// Error es un fallo de pago con mensaje listo para mostrarle al usuario.
type Error struct {
	Mensaje string
}

func (e *Error) Error() string {
	return e.Mensaje
}

func nuevoError(mensaje string) *Error {
	return &Error{Mensaje: mensaje}
}
