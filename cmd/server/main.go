package main

import (
	"log"
	"os"

	"drrecetas_back_end/internal/ath"
	"drrecetas_back_end/internal/cart"
	"drrecetas_back_end/internal/checkout"
	"drrecetas_back_end/internal/config"
	"drrecetas_back_end/internal/database"
	"drrecetas_back_end/internal/drapi"
	"drrecetas_back_end/internal/handlers/carrito"
	"drrecetas_back_end/internal/handlers/compra"
	"drrecetas_back_end/internal/handlers/cuenta"
	"drrecetas_back_end/internal/handlers/orden"
	"drrecetas_back_end/internal/handlers/pago"
	"drrecetas_back_end/internal/middleware"
	"drrecetas_back_end/internal/order"
	"drrecetas_back_end/internal/payment"
	"drrecetas_back_end/internal/routes"
	"drrecetas_back_end/internal/storage"
	"drrecetas_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.ConnectRedis()
	middleware.InitSessionStore()

	// Composition root: los servicios reciben sus dependencias aquí en
	// vez de usar singletons ambientales
	store := storage.NewRedisStore(database.Redis)
	api := drapi.NewClient(config.APIBaseURL())
	log.Println("✅ Cliente del API configurado:", config.APIBaseURL())

	carritoSvc := cart.NewService(store)
	wizardSvc := checkout.NewService(store)
	tarjetaSvc := payment.NewCardService(api, store)
	bridgeSvc := ath.NewBridge(api, store)
	ordenSvc := order.NewService(api, store, carritoSvc, utils.NewCorreoConfirmacion())

	origenes := config.AllowedOrigins()

	h := &routes.Handlers{
		Carrito: carrito.NewHandler(carritoSvc),
		Compra:  compra.NewHandler(wizardSvc, carritoSvc, api),
		Pago:    pago.NewHandler(tarjetaSvc, bridgeSvc, wizardSvc, carritoSvc, origenes),
		Orden:   orden.NewHandler(ordenSvc, api),
		Cuenta:  cuenta.NewHandler(api),
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origenes,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Servidor Doctor Recetas escuchando en el puerto", port)
	r.Run(":" + port)
}
