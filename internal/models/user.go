package models

// Usuario es la porción del blob dr_user que este servicio necesita.
// El API PHP es dueño de la cuenta; aquí solo se reenvía el token.
type Usuario struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}
