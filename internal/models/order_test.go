package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderState(t *testing.T) {
	for _, name := range []string{"AWAITING_SHIPMENT", "SHIPPED", "DELIVERED", "RETURN"} {
		state, err := ParseOrderState(name)
		require.NoError(t, err, name)
		assert.Equal(t, OrderState(name), state)
	}
}

func TestParseOrderStateRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "delivered", "CANCELLED", "SHIPPED "} {
		_, err := ParseOrderState(name)
		assert.ErrorIs(t, err, ErrUnknownState, "%q", name)
	}
}

func TestNewOrderSummaryCountsItems(t *testing.T) {
	order := Order{
		Username: "alice",
		State:    StateAwaitingShipment,
		Items:    []OrderItem{{Quantity: 2}, {Quantity: 1}},
	}

	summary := NewOrderSummary(order)
	assert.Equal(t, 2, summary.ItemsCount)
	assert.Equal(t, StateAwaitingShipment, summary.State)
}
