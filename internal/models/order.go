package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderState représente l'état du cycle de vie d'une commande.
type OrderState string

const (
	StateAwaitingShipment OrderState = "AWAITING_SHIPMENT"
	StateShipped          OrderState = "SHIPPED"
	StateDelivered        OrderState = "DELIVERED"
	StateReturn           OrderState = "RETURN"
)

var ErrUnknownState = errors.New("état de commande inconnu")

// ParseOrderState convertit une chaîne en OrderState.
func ParseOrderState(name string) (OrderState, error) {
	switch s := OrderState(name); s {
	case StateAwaitingShipment, StateShipped, StateDelivered, StateReturn:
		return s, nil
	}
	return "", ErrUnknownState
}

type Order struct {
	ID              uuid.UUID   `json:"id"`
	CartID          uuid.UUID   `json:"cart_id"`
	Username        string      `json:"username"`
	OwnerAddress    string      `json:"owner_address"`
	DeliveryAddress string      `json:"delivery_address"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentState    bool        `json:"payment_state"`
	State           OrderState  `json:"state"`
	Items           []OrderItem `json:"items"`
	TotalPrice      float64     `json:"total_price"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderItem est une copie figée d'une ligne de panier au moment de la commande.
type OrderItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
}

// OrderSummary est le DTO renvoyé par les listes paginées.
type OrderSummary struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	DeliveryAddress string     `json:"delivery_address"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentState    bool       `json:"payment_state"`
	State           OrderState `json:"state"`
	TotalPrice      float64    `json:"total_price"`
	ItemsCount      int        `json:"items_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewOrderSummary(o Order) OrderSummary {
	return OrderSummary{
		ID:              o.ID,
		Username:        o.Username,
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   o.PaymentMethod,
		PaymentState:    o.PaymentState,
		State:           o.State,
		TotalPrice:      o.TotalPrice,
		ItemsCount:      len(o.Items),
		CreatedAt:       o.CreatedAt,
	}
}
