package scylla

import (
	"context"
	"errors"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
)

// ProductStore lit et écrit les produits du keyspace products.
type ProductStore struct{}

func NewProductStore() *ProductStore { return &ProductStore{} }

func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	var productID gocql.UUID
	err = session.Query(
		`SELECT product_id, name, description, price, stock, image_urls, tags, created_at, updated_at
		 FROM products WHERE product_id = ?`, gocql.UUID(id)).WithContext(ctx).
		Scan(&productID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ID = uuid.UUID(productID)
	return &p, nil
}

func (s *ProductStore) List(ctx context.Context, limit int) ([]models.Product, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT product_id, name, description, price, stock, image_urls, tags, created_at, updated_at
		 FROM products LIMIT ?`, limit).WithContext(ctx).Iter()

	var products []models.Product
	var p models.Product
	var productID gocql.UUID

	for iter.Scan(&productID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.ImageURLs, &p.Tags, &p.CreatedAt, &p.UpdatedAt) {
		p.ID = uuid.UUID(productID)
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) Save(ctx context.Context, product *models.Product) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	return session.Query(
		`INSERT INTO products (product_id, name, description, price, stock, image_urls, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gocql.UUID(product.ID), product.Name, product.Description, product.Price, product.Stock,
		product.ImageURLs, product.Tags, product.CreatedAt, product.UpdatedAt).
		WithContext(ctx).Exec()
}

// AdjustStock ajoute delta au stock disponible. Lecture puis écriture : la
// sérialisation des ajustements concurrents repose sur l'isolement du
// stockage, pas sur un verrou applicatif.
func (s *ProductStore) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	var stock int
	err = session.Query(`SELECT stock FROM products WHERE product_id = ?`, gocql.UUID(id)).
		WithContext(ctx).Scan(&stock)
	if errors.Is(err, gocql.ErrNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}

	return session.Query(`UPDATE products SET stock = ?, updated_at = ? WHERE product_id = ?`,
		stock+delta, time.Now(), gocql.UUID(id)).WithContext(ctx).Exec()
}
