package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casadimoda-backend/internal/models"
)

func validOrderRequest() createOrderRequest {
	return createOrderRequest{
		Items: []createOrderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 2},
		},
		ShippingAddress: models.ShippingAddress{
			FullName: "Giulia Rossi",
			Street:   "Via Roma 12",
			City:     "Milano",
			Country:  "IT",
		},
		PaymentMethod: "card",
	}
}

func TestBuildOrderFromRequestValid(t *testing.T) {
	userID := primitive.NewObjectID()
	req := validOrderRequest()

	order, err := buildOrderFromRequest(req, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.False(t, order.IsPaid)
}

func TestBuildOrderFromRequestRejections(t *testing.T) {
	userID := primitive.NewObjectID()

	tests := []struct {
		name   string
		mutate func(*createOrderRequest)
	}{
		{"no items", func(r *createOrderRequest) { r.Items = nil }},
		{"bad payment method", func(r *createOrderRequest) { r.PaymentMethod = "bitcoin" }},
		{"missing full name", func(r *createOrderRequest) { r.ShippingAddress.FullName = " " }},
		{"missing street", func(r *createOrderRequest) { r.ShippingAddress.Street = "" }},
		{"invalid product id", func(r *createOrderRequest) { r.Items[0].ProductID = "nope" }},
		{"zero quantity", func(r *createOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative quantity", func(r *createOrderRequest) { r.Items[0].Quantity = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrderRequest()
			tt.mutate(&req)
			_, err := buildOrderFromRequest(req, userID)
			assert.Error(t, err)
		})
	}
}

func TestBuildOrderFromRequestAcceptsAllPaymentMethods(t *testing.T) {
	userID := primitive.NewObjectID()
	for _, method := range []string{"card", "cash", "giftcard"} {
		req := validOrderRequest()
		req.PaymentMethod = method
		_, err := buildOrderFromRequest(req, userID)
		assert.NoError(t, err, method)
	}
}

func TestEffectiveUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"discount applies", 100, 80, 80},
		{"no discount set", 100, 0, 100},
		{"discount above list price ignored", 100, 120, 100},
		{"discount equal to price ignored", 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Product{Price: tt.price, DiscountPrice: tt.discount}
			assert.Equal(t, tt.want, effectiveUnitPrice(p))
		})
	}
}

func TestApplyCoupon(t *testing.T) {
	assert.Equal(t, 85.0, applyCoupon(100, 15))
	assert.Equal(t, 100.0, applyCoupon(100, 0))
	assert.Equal(t, 100.0, applyCoupon(100, -5))
	assert.Equal(t, 100.0, applyCoupon(100, 150))
	assert.Equal(t, 0.0, applyCoupon(100, 100))
}
