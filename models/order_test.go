package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Name: "Dal Makhani Thali", Price: 100, Quantity: 2},
			{Name: "Roti Pack", Price: 50, Quantity: 1},
		},
		DeliveryCharge: 20,
		Taxes:          10,
	}

	total := order.RecomputeTotal()

	assert.Equal(t, 250.0, order.ItemsTotal)
	assert.Equal(t, 280.0, order.TotalAmount)
	assert.Equal(t, 280.0, total)
}

func TestRecomputeTotalAppliesDiscount(t *testing.T) {
	order := Order{
		Items:          []OrderItem{{Price: 120, Quantity: 3}},
		DeliveryCharge: 30,
		Taxes:          18,
		Discount:       Discount{Amount: 50, Code: "WELCOME50", Type: "fixed"},
	}

	order.RecomputeTotal()

	assert.Equal(t, 360.0, order.ItemsTotal)
	assert.Equal(t, 360.0+30+18-50, order.TotalAmount)
}

func TestRecomputeTotalIsIdempotent(t *testing.T) {
	order := Order{
		Items:          []OrderItem{{Price: 75, Quantity: 2}},
		DeliveryCharge: 20,
	}

	first := order.RecomputeTotal()
	second := order.RecomputeTotal()

	assert.Equal(t, first, second)
	assert.Equal(t, 150.0, order.ItemsTotal)
}

func TestRecomputeTotalAfterItemMutation(t *testing.T) {
	order := Order{Items: []OrderItem{{Price: 100, Quantity: 1}}}
	order.RecomputeTotal()
	assert.Equal(t, 100.0, order.TotalAmount)

	order.Items = append(order.Items, OrderItem{Price: 40, Quantity: 2})
	order.RecomputeTotal()
	assert.Equal(t, 180.0, order.TotalAmount)
}

func TestCanBeCancelled(t *testing.T) {
	for _, status := range []OrderStatus{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery} {
		order := Order{Status: status}
		assert.True(t, order.CanBeCancelled(), "status %s", status)
	}
	for _, status := range []OrderStatus{StatusDelivered, StatusCancelled, StatusRejected} {
		order := Order{Status: status}
		assert.False(t, order.CanBeCancelled(), "status %s", status)
	}
}

func TestNewOrderNumber(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	num := NewOrderNumber(at, 7)

	assert.True(t, strings.HasPrefix(num, "TMS"))
	assert.True(t, strings.HasSuffix(num, "0007"), "sequence must be zero-padded to 4 digits: %s", num)
	assert.Contains(t, num, "1717243200000") // unix millis of the creation instant

	// Large sequences are not truncated
	assert.True(t, strings.HasSuffix(NewOrderNumber(at, 12345), "12345"))
}
