package checkout

import (
	"fmt"
	"strings"
	"time"

	"drrecetas_back_end/internal/models"
)

// El API PHP devolvió el perfil con nombres de campo distintos a lo largo
// de los años. La hidratación se expresa como una lista ordenada de llaves
// alternativas por campo: la primera que exista con valor no vacío gana.
// Agregar un formato histórico nuevo es agregar una llave a la lista.

type fieldFallback struct {
	set  func(*models.CheckoutFormData, string)
	keys []string
}

var perfilFallbacks = []fieldFallback{
	{
		set:  func(f *models.CheckoutFormData, v string) { f.NombreCompleto = v },
		keys: []string{"us_nombres", "us_nombre", "nombres", "nombre", "nombre_completo", "full_name"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.FechaNacimiento = NormalizarFechaNacimiento(v) },
		keys: []string{"us_fecha_nacimiento", "fecha_nacimiento", "fecha_nac", "nacimiento", "birthdate"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.TipoDocumento = v },
		keys: []string{"us_tipo_documento", "tipo_documento", "tipo_doc", "doc_tipo"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.NumeroDocumento = v },
		keys: []string{"us_numero_documento", "numero_documento", "num_documento", "documento", "doc_numero"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.Pais = v },
		keys: []string{"us_pais", "pais", "country"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.Municipio = v },
		keys: []string{"us_municipio", "municipio", "ciudad", "city"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.Direccion = v },
		keys: []string{"us_direccion", "direccion", "direccion1", "address"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.Apartamento = v },
		keys: []string{"us_apartamento", "apartamento", "direccion2", "apto"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.CodigoPostal = v },
		keys: []string{"us_codigo_postal", "codigo_postal", "zip", "zipcode", "cp"},
	},
	{
		set:  func(f *models.CheckoutFormData, v string) { f.Telefono = v },
		keys: []string{"us_telefono", "telefono", "celular", "phone"},
	},
}

// HidratarFormulario arma el formulario canónico desde el perfil crudo que
// devuelva el API, tolerando todas las variantes históricas de nombres de
// campo. Es best-effort: lo que no se reconoce simplemente queda vacío.
func HidratarFormulario(perfil map[string]any) models.CheckoutFormData {
	var form models.CheckoutFormData
	for _, fb := range perfilFallbacks {
		for _, k := range fb.keys {
			if v := stringValue(perfil[k]); v != "" {
				fb.set(&form, v)
				break
			}
		}
	}
	return form
}

func stringValue(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// Algunos campos numéricos (zip, teléfono) llegan como número JSON
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return ""
	}
}

// Formatos de fecha que el API ha usado históricamente, en orden de prueba.
var fechaFormatos = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// NormalizarFechaNacimiento lleva la fecha al YYYY-MM-DD que necesita un
// input de fecha. Un formato desconocido pasa sin cambios: best-effort,
// no validación.
func NormalizarFechaNacimiento(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range fechaFormatos {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
