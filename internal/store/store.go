// Package store définit les contrats de persistance consommés par la couche
// service. Les implémentations ScyllaDB et Redis vivent dans les sous-paquets.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"my_market_back_end/internal/models"
)

// ErrNotFound est renvoyé par toutes les recherches dont la cible n'existe pas.
var ErrNotFound = errors.New("ressource introuvable")

// UserStore expose les utilisateurs, identifiés par leur username unique.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// CartStore expose les paniers, identifiés par un UUID généré à la création.
type CartStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	// Clear vide le panier (suppression de ses lignes).
	Clear(ctx context.Context, id uuid.UUID) error
}

// ProductStore expose les produits et leurs stocks.
type ProductStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, limit int) ([]models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	// AdjustStock ajoute delta (positif ou négatif) au stock disponible.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// StatisticRow est une ligne d'agrégat brute produite par l'OrderStore.
type StatisticRow struct {
	Day     time.Time
	Orders  int
	Revenue float64
}

// ProductStatisticRow est une ligne brute de ventes par produit.
type ProductStatisticRow struct {
	ProductID   uuid.UUID
	ProductName string
	Sold        int
	Revenue     float64
}

// OrderStore expose la persistance des commandes ainsi que les agrégats
// statistiques délégués par la couche service.
type OrderStore interface {
	Save(ctx context.Context, order *models.Order) error
	// Delete supprime une commande. Utilisé uniquement pour compenser une
	// création partiellement appliquée.
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindAllByOwner(ctx context.Context, username string, from, to time.Time, offset, limit int) ([]models.Order, error)
	FindAll(ctx context.Context, from, to time.Time, offset, limit int, state string) ([]models.Order, error)
	GetStatistic(ctx context.Context, name string, from, to time.Time) ([]StatisticRow, error)
	GetProductStatistic(ctx context.Context, from, to time.Time) ([]ProductStatisticRow, error)
}
