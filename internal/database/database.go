package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// Redis guarda carritos, sesiones de checkout y órdenes pendientes.
// Es la única base de datos del servicio: la persistencia real de
// órdenes y pagos vive en el API PHP.
var Redis *redis.Client

func ConnectRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Redis.Ping(context.Background()).Err(); err != nil {
		log.Fatal("❌ Error conexión Redis:", err)
	}
	log.Println("✅ Conectado a Redis")
}

// CloseRedis cierra la conexión Redis.
func CloseRedis() error {
	if Redis != nil {
		return Redis.Close()
	}
	return nil
}
