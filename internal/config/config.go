package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  No se encontró archivo .env — seguimos con las variables de entorno del sistema")
	} else {
		log.Println("✅ Archivo .env cargado con éxito")
	}
}

// APIBaseURL devuelve la URL base del API PHP de doctorrecetas.com.
func APIBaseURL() string {
	u := os.Getenv("DR_API_BASE_URL")
	if u == "" {
		return "https://doctorrecetas.com/api"
	}
	return strings.TrimRight(u, "/")
}

// AllowedOrigins devuelve la lista blanca de orígenes para CORS y para el
// canal WebSocket del widget ATH Móvil.
func AllowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"https://doctorrecetas.com", "https://www.doctorrecetas.com"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
