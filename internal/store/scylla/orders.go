package scylla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"my_market_back_end/internal/database"
	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
)

// OrderStore lit et écrit les commandes du keyspace orders. Les lignes de
// commande sont stockées en JSON dans la colonne items; la table
// orders_by_user indexe les commandes d'un utilisateur par date décroissante.
type OrderStore struct{}

func NewOrderStore() *OrderStore { return &OrderStore{} }

const orderColumns = `order_id, cart_id, username, owner_address, delivery_address, payment_method, payment_state, state, items, total_price, created_at`

func (s *OrderStore) Save(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("sérialisation lignes de commande: %w", err)
	}

	if err := session.Query(
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gocql.UUID(order.ID), gocql.UUID(order.CartID), order.Username, order.OwnerAddress,
		order.DeliveryAddress, order.PaymentMethod, order.PaymentState, string(order.State),
		string(itemsJSON), order.TotalPrice, order.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(
		`INSERT INTO orders_by_user (username, created_at, order_id) VALUES (?, ?, ?)`,
		order.Username, order.CreatedAt, gocql.UUID(order.ID)).
		WithContext(ctx).Exec()
}

func (s *OrderStore) Delete(ctx context.Context, id uuid.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	// L'index par utilisateur a besoin de la clé de clustering.
	order, err := s.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := session.Query(`DELETE FROM orders WHERE order_id = ?`, gocql.UUID(id)).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(
		`DELETE FROM orders_by_user WHERE username = ? AND created_at = ? AND order_id = ?`,
		order.Username, order.CreatedAt, gocql.UUID(id)).
		WithContext(ctx).Exec()
}

func (s *OrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var scanner interface {
		Scan(...interface{}) error
	}

	if stmt := database.GetPreparedGetOrderByID(); stmt != nil {
		scanner = stmt.Bind(gocql.UUID(id)).WithContext(ctx)
	} else {
		session, err := database.GetOrdersSession()
		if err != nil {
			return nil, err
		}
		scanner = session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, gocql.UUID(id)).
			WithContext(ctx)
	}

	order, err := scanOrder(scanner.Scan)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindAllByOwner retourne les commandes d'un utilisateur dans [from, to),
// les plus récentes d'abord, découpées par offset/limit.
func (s *OrderStore) FindAllByOwner(ctx context.Context, username string, from, to time.Time, offset, limit int) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(
		`SELECT order_id FROM orders_by_user WHERE username = ? AND created_at >= ? AND created_at < ?`,
		username, from, to).WithContext(ctx).Iter()

	var ids []gocql.UUID
	var orderID gocql.UUID
	for iter.Scan(&orderID) {
		ids = append(ids, orderID)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	ids = slicePage(ids, offset, limit)

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.FindByID(ctx, uuid.UUID(id))
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// FindAll parcourt la table des commandes et filtre par période et par état.
// Un état inconnu ne matche simplement aucune ligne.
func (s *OrderStore) FindAll(ctx context.Context, from, to time.Time, offset, limit int, state string) ([]models.Order, error) {
	orders, err := s.scanRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	filtered := orders[:0]
	for _, o := range orders {
		if state == "" || string(o.State) == state {
			filtered = append(filtered, o)
		}
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return slicePage(filtered, offset, limit), nil
}

// GetStatistic agrège les commandes de la période par jour. Les noms
// supportés sont "orders" et "revenue"; les deux agrégats portent le compte
// et le chiffre d'affaires.
func (s *OrderStore) GetStatistic(ctx context.Context, name string, from, to time.Time) ([]store.StatisticRow, error) {
	if name != "orders" && name != "revenue" {
		return nil, fmt.Errorf("statistique inconnue: %q", name)
	}

	orders, err := s.scanRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*store.StatisticRow)
	for _, o := range orders {
		day := o.CreatedAt.UTC().Truncate(24 * time.Hour)
		row, ok := byDay[day]
		if !ok {
			row = &store.StatisticRow{Day: day}
			byDay[day] = row
		}
		row.Orders++
		row.Revenue += o.TotalPrice
	}

	rows := make([]store.StatisticRow, 0, len(byDay))
	for _, row := range byDay {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Day.Before(rows[j].Day) })
	return rows, nil
}

// GetProductStatistic agrège les ventes de la période par produit, les plus
// vendus d'abord.
func (s *OrderStore) GetProductStatistic(ctx context.Context, from, to time.Time) ([]store.ProductStatisticRow, error) {
	orders, err := s.scanRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID]*store.ProductStatisticRow)
	for _, o := range orders {
		for _, item := range o.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &store.ProductStatisticRow{ProductID: item.ProductID, ProductName: item.ProductName}
				byProduct[item.ProductID] = row
			}
			row.Sold += item.Quantity
			row.Revenue += item.Price * float64(item.Quantity)
		}
	}

	rows := make([]store.ProductStatisticRow, 0, len(byProduct))
	for _, row := range byProduct {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sold > rows[j].Sold })
	return rows, nil
}

// scanRange lit toutes les commandes dont created_at est dans [from, to).
func (s *OrderStore) scanRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT ` + orderColumns + ` FROM orders`).WithContext(ctx).Iter()
	scan := func(dest ...interface{}) error {
		if !iter.Scan(dest...) {
			return gocql.ErrNotFound
		}
		return nil
	}

	var orders []models.Order
	for {
		order, err := scanOrder(scan)
		if errors.Is(err, gocql.ErrNotFound) {
			break
		}
		if err != nil {
			iter.Close()
			return nil, err
		}
		if order.CreatedAt.Before(from) || !order.CreatedAt.Before(to) {
			continue
		}
		orders = append(orders, *order)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

// scanOrder décode une ligne de la table orders, items JSON compris.
func scanOrder(scan func(...interface{}) error) (*models.Order, error) {
	var o models.Order
	var orderID, cartID gocql.UUID
	var state, itemsJSON string

	if err := scan(&orderID, &cartID, &o.Username, &o.OwnerAddress, &o.DeliveryAddress,
		&o.PaymentMethod, &o.PaymentState, &state, &itemsJSON, &o.TotalPrice, &o.CreatedAt); err != nil {
		return nil, err
	}

	o.ID = uuid.UUID(orderID)
	o.CartID = uuid.UUID(cartID)
	o.State = models.OrderState(state)
	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, fmt.Errorf("lignes de commande illisibles (%s): %w", o.ID, err)
	}
	return &o, nil
}

func slicePage[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
