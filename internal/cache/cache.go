// Package cache met en cache Redis les lectures chaudes de ScyllaDB.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store/scylla"
)

const ProductCacheTTL = 10 * time.Minute

// GetProductFromCache récupère un produit depuis Redis, ou depuis ScyllaDB en
// repli (avec mise en cache).
func GetProductFromCache(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key := "product:" + id.String()

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var product models.Product
		if json.Unmarshal([]byte(data), &product) == nil {
			return &product, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	product, err := scylla.NewProductStore().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(product)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return product, nil
}

// InvalidateProductCache invalide le cache d'un produit après une écriture.
func InvalidateProductCache(ctx context.Context, id uuid.UUID) {
	database.Redis.Del(ctx, "product:"+id.String())
}
