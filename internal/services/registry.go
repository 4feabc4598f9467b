package services

import (
	"log"

	"my_market_back_end/internal/store/rediscart"
	"my_market_back_end/internal/store/scylla"
)

// Orders est l'instance câblée sur ScyllaDB et Redis, initialisée au
// démarrage du serveur.
var Orders *OrderService

// InitServices câble les stores concrets sur la couche service.
func InitServices() {
	Orders = NewOrderService(
		scylla.NewUserStore(),
		rediscart.NewCartStore(),
		scylla.NewProductStore(),
		scylla.NewOrderStore(),
	)
	log.Println("✅ Services initialisés")
}
