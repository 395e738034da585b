package models

import "strconv"

// CartItem representa un servicio agregado al carrito.
// El precio viaja como string decimal ("25.00") porque así lo entrega
// el API de doctorrecetas.com.
type CartItem struct {
	ID        string `json:"id"`
	Titulo    string `json:"titulo"`
	Precio    string `json:"precio"`
	Imagen    string `json:"imagen,omitempty"`
	Categoria string `json:"categoria,omitempty"`
	Detalle   string `json:"detalle,omitempty"`
	Resumen   string `json:"resumen,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

// PrecioFloat devuelve el precio parseado; un precio malformado cuenta como 0.
func (i CartItem) PrecioFloat() float64 {
	v, err := strconv.ParseFloat(i.Precio, 64)
	if err != nil {
		return 0
	}
	return v
}
