package models

import "github.com/google/uuid"

// Statistic est le DTO d'une ligne de statistique journalière.
type Statistic struct {
	Label   string  `json:"label"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ProductStatistic est le DTO des ventes agrégées par produit.
type ProductStatistic struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Sold        int       `json:"sold"`
	Revenue     float64   `json:"revenue"`
}
