package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Price: 20, Quantity: 2},
		{Price: 8, Quantity: 1},
	}}
	assert.Equal(t, 48.0, cart.Total())

	empty := Cart{}
	assert.Zero(t, empty.Total())
}
