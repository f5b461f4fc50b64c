package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusCancelled},
		{StatusPending, StatusDeclined},
		{StatusPreparing, StatusAccepted},
		{StatusPreparing, StatusPending},
		{StatusAccepted, StatusPickedUp},
		{StatusPickedUp, StatusOutForDelivery},
		{StatusOutForDelivery, StatusDelivered},
		{StatusDelivered, StatusRefunded},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransition(tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusDelivered},
		{StatusAccepted, StatusDelivered},
		{StatusAccepted, StatusPending},
		{StatusOutForDelivery, StatusPickedUp},
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusPreparing},
		{StatusRefunded, StatusDelivered},
		{StatusDeclined, StatusPending},
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransition(tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPickedUp.Valid())
	assert.True(t, StatusOutForDelivery.Valid())
	assert.False(t, OrderStatus("Shipped").Valid())
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled, StatusRefunded, StatusDeclined} {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}
	for _, s := range []OrderStatus{StatusPending, StatusPreparing, StatusAccepted, StatusPickedUp, StatusOutForDelivery} {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestSetStockKeepsFlagInSync(t *testing.T) {
	var item MenuItem
	item.SetStock(5)
	assert.False(t, item.IsOutOfStock)
	item.SetStock(0)
	assert.True(t, item.IsOutOfStock)
	item.SetStock(1)
	assert.False(t, item.IsOutOfStock)
}

func TestPendingUpdateRoundTrip(t *testing.T) {
	price := 199.0
	stock := 0
	pu := PendingUpdate{Price: &price, StockAvailable: &stock}

	raw, err := pu.Encode()
	assert.NoError(t, err)

	decoded, err := DecodePendingUpdate(raw)
	assert.NoError(t, err)
	assert.Equal(t, 199.0, *decoded.Price)
	assert.Equal(t, 0, *decoded.StockAvailable)
	assert.Nil(t, decoded.Name)
}

func TestDecodePendingUpdateRejectsUnknownFields(t *testing.T) {
	_, err := DecodePendingUpdate(`{"price": 10, "surprise": true}`)
	assert.Error(t, err)
}
