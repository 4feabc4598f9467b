package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
)

// Taille de page fixe des listes de commandes.
const ordersPageSize = 5

// Largeur historique (octet signé) des incréments de réapprovisionnement.
const maxRestockQuantity = 127

var (
	ErrBadCartID       = errors.New("identifiant de panier invalide")
	ErrRestockOverflow = errors.New("quantité de réapprovisionnement trop grande")
)

// OrderConfirmation porte les données de validation d'un panier en commande.
type OrderConfirmation struct {
	Username      string
	CartID        string
	Address       string
	PaymentMethod string
}

// OrderService orchestre le cycle de vie des commandes : création depuis un
// panier, transitions d'état, ajustements de stock et statistiques de vente.
type OrderService struct {
	users    store.UserStore
	carts    store.CartStore
	products store.ProductStore
	orders   store.OrderStore
}

func NewOrderService(users store.UserStore, carts store.CartStore, products store.ProductStore, orders store.OrderStore) *OrderService {
	return &OrderService{users: users, carts: carts, products: products, orders: orders}
}

// unitOfWork accumule les compensations à rejouer en ordre inverse quand une
// étape d'une séquence de mutations échoue : aucun effet partiel ne doit
// rester observable.
type unitOfWork struct {
	undos []func(context.Context) error
}

func (u *unitOfWork) onFailure(undo func(context.Context) error) {
	u.undos = append(u.undos, undo)
}

func (u *unitOfWork) rollback(ctx context.Context) {
	for i := len(u.undos) - 1; i >= 0; i-- {
		if err := u.undos[i](ctx); err != nil {
			log.Printf("⚠️ Compensation impossible: %v", err)
		}
	}
}

// CreateFromCart transforme un panier en commande : la commande est
// enregistrée, le stock de chaque produit décrémenté, puis le panier vidé.
// Les trois mutations forment un tout : en cas d'échec, tout est compensé.
func (s *OrderService) CreateFromCart(ctx context.Context, confirm OrderConfirmation) (*models.Order, error) {
	cartID, err := uuid.Parse(confirm.CartID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadCartID, confirm.CartID)
	}

	user, err := s.users.FindByUsername(ctx, confirm.Username)
	if err != nil {
		return nil, fmt.Errorf("utilisateur %q: %w", confirm.Username, err)
	}
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("panier %s: %w", cartID, err)
	}

	// Paiement à la livraison : la commande part non réglée. Tout autre moyen
	// de paiement est considéré comme réglé d'avance.
	paymentState := confirm.PaymentMethod != "cash"

	order := &models.Order{
		ID:              uuid.New(),
		CartID:          cart.ID,
		Username:        user.Username,
		OwnerAddress:    user.Address,
		DeliveryAddress: confirm.Address,
		PaymentMethod:   confirm.PaymentMethod,
		PaymentState:    paymentState,
		State:           models.StateAwaitingShipment,
		Items:           orderItemsFromCart(cart.Items),
		TotalPrice:      cart.Total(),
		CreatedAt:       time.Now(),
	}

	uow := &unitOfWork{}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("enregistrement commande: %w", err)
	}
	uow.onFailure(func(ctx context.Context) error {
		return s.orders.Delete(ctx, order.ID)
	})

	for _, item := range order.Items {
		if err := s.products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			uow.rollback(ctx)
			return nil, fmt.Errorf("décrément stock produit %s: %w", item.ProductID, err)
		}
		item := item
		uow.onFailure(func(ctx context.Context) error {
			return s.products.AdjustStock(ctx, item.ProductID, item.Quantity)
		})
	}

	if err := s.carts.Clear(ctx, cart.ID); err != nil {
		uow.rollback(ctx)
		return nil, fmt.Errorf("vidage panier %s: %w", cart.ID, err)
	}

	log.Printf("✅ Commande %s créée pour %s (%d articles)", order.ID, user.Username, len(order.Items))
	return order, nil
}

func orderItemsFromCart(items []models.CartItem) []models.OrderItem {
	copied := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		copied = append(copied, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}
	return copied
}

// FindOrdersByOwner liste les commandes d'un utilisateur sur une période,
// paginées par pages de 5.
func (s *OrderService) FindOrdersByOwner(ctx context.Context, username string, from, to time.Time, page int) ([]models.OrderSummary, error) {
	orders, err := s.orders.FindAllByOwner(ctx, username, from, to, pageOffset(page, ordersPageSize), ordersPageSize)
	if err != nil {
		return nil, err
	}
	return summaries(orders), nil
}

// FindAllOrders liste toutes les commandes, filtrées par période et par état.
// L'état est transmis tel quel au store, qui décide quoi faire d'une valeur
// inconnue.
func (s *OrderService) FindAllOrders(ctx context.Context, from, to time.Time, page int, state string) ([]models.OrderSummary, error) {
	orders, err := s.orders.FindAll(ctx, from, to, pageOffset(page, ordersPageSize), ordersPageSize, state)
	if err != nil {
		return nil, err
	}
	return summaries(orders), nil
}

func summaries(orders []models.Order) []models.OrderSummary {
	result := make([]models.OrderSummary, 0, len(orders))
	for _, o := range orders {
		result = append(result, models.NewOrderSummary(o))
	}
	return result
}

// pageOffset reproduit l'arithmétique de pagination historique : la page 1
// démarre à 0, la page P>1 à (P-1)*taille-1.
func pageOffset(page, size int) int {
	if page != 1 {
		return (page-1)*size - 1
	}
	return 0
}

// FindByID retourne la commande, ou nil sans erreur si elle n'existe pas :
// l'absence n'est pas une faute pour cette recherche, contrairement aux
// résolutions faites pendant la création.
func (s *OrderService) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return order, err
}

// UpdateOrder fait avancer une commande : DELIVERED règle le paiement, RETURN
// réapprovisionne les produits commandés. L'état enregistré est ensuite
// toujours écrasé par la valeur reçue, même quand la branche exécutée en
// implique déjà un — comportement historique conservé tel quel. L'adresse de
// livraison est mise à jour inconditionnellement.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, address, stateName string) (*models.Order, error) {
	// Un état illisible doit faire échouer l'appel avant toute mutation.
	state, err := models.ParseOrderState(stateName)
	if err != nil {
		return nil, fmt.Errorf("état %q: %w", stateName, err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("commande %s: %w", orderID, err)
	}

	uow := &unitOfWork{}
	switch state {
	case models.StateDelivered:
		order.PaymentState = true
	case models.StateReturn:
		// Bornes vérifiées avant le moindre incrément : un dépassement ne
		// doit laisser aucune mutation derrière lui.
		for _, item := range order.Items {
			if item.Quantity > maxRestockQuantity {
				return nil, fmt.Errorf("produit %s (qté %d): %w", item.ProductID, item.Quantity, ErrRestockOverflow)
			}
		}
		for _, item := range order.Items {
			if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				uow.rollback(ctx)
				return nil, fmt.Errorf("réapprovisionnement produit %s: %w", item.ProductID, err)
			}
			item := item
			uow.onFailure(func(ctx context.Context) error {
				return s.products.AdjustStock(ctx, item.ProductID, -item.Quantity)
			})
		}
	}

	order.State = state
	order.DeliveryAddress = address

	if err := s.orders.Save(ctx, order); err != nil {
		uow.rollback(ctx)
		return nil, fmt.Errorf("enregistrement commande %s: %w", orderID, err)
	}

	log.Printf("✅ Commande %s mise à jour (état %s)", orderID, state)
	return order, nil
}

// GetStatistic mappe les agrégats bruts du store en DTO de présentation.
func (s *OrderService) GetStatistic(ctx context.Context, name string, from, to time.Time) ([]models.Statistic, error) {
	rows, err := s.orders.GetStatistic(ctx, name, from, to)
	if err != nil {
		return nil, err
	}
	stats := make([]models.Statistic, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, models.Statistic{
			Label:   r.Day.Format("2006-01-02"),
			Orders:  r.Orders,
			Revenue: r.Revenue,
		})
	}
	return stats, nil
}

// GetProductStatistic mappe les ventes par produit en DTO de présentation.
func (s *OrderService) GetProductStatistic(ctx context.Context, from, to time.Time) ([]models.ProductStatistic, error) {
	rows, err := s.orders.GetProductStatistic(ctx, from, to)
	if err != nil {
		return nil, err
	}
	stats := make([]models.ProductStatistic, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, models.ProductStatistic{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Sold:        r.Sold,
			Revenue:     r.Revenue,
		})
	}
	return stats, nil
}
