// Package rediscart implémente store.CartStore sur Redis : un panier est un
// blob JSON sous la clé "cart:<uuid>", avec une durée de vie de 30 jours.
package rediscart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
)

// CartTTL : un panier abandonné expire au bout de 30 jours.
const CartTTL = 30 * 24 * time.Hour

type CartStore struct{}

func NewCartStore() *CartStore { return &CartStore{} }

func cartKey(id uuid.UUID) string {
	return "cart:" + id.String()
}

func (s *CartStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	data, err := database.Redis.Get(ctx, cartKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("panier %s illisible: %w", id, err)
	}
	return &models.Cart{ID: id, Items: items}, nil
}

func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	return database.Redis.Set(ctx, cartKey(cart.ID), data, CartTTL).Err()
}

// Clear vide le panier sans supprimer la clé : le panier reste résolvable
// après la commande, simplement sans lignes.
func (s *CartStore) Clear(ctx context.Context, id uuid.UUID) error {
	if err := database.Redis.Set(ctx, cartKey(id), "[]", CartTTL).Err(); err != nil {
		return err
	}
	database.Redis.Publish(ctx, cartKey(id), "cleared")
	return nil
}
