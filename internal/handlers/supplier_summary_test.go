package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casadimoda-backend/internal/models"
)

func paidOrder(items ...models.OrderItem) models.Order {
	return models.Order{IsPaid: true, Items: items}
}

func supplierLine(supplierID primitive.ObjectID, price float64, quantity int) models.OrderItem {
	return models.OrderItem{
		ProductID:  primitive.NewObjectID(),
		SupplierID: &supplierID,
		Price:      price,
		Quantity:   quantity,
	}
}

func TestSummarizeSupplierRevenueCommission(t *testing.T) {
	supplierID := primitive.NewObjectID()

	// gross 1000 at rate 15 -> commission 150, net 850
	orders := []models.Order{
		paidOrder(supplierLine(supplierID, 250, 2)),
		paidOrder(supplierLine(supplierID, 100, 5)),
	}

	summary := summarizeSupplierRevenue(orders, supplierID, 15)

	assert.Equal(t, 1000.0, summary.GrossRevenue)
	assert.Equal(t, 150.0, summary.CommissionAmount)
	assert.Equal(t, 850.0, summary.NetRevenue)
	assert.Equal(t, 2, summary.OrdersCount)
	assert.Equal(t, 7, summary.UnitsSold)
}

func TestSummarizeSupplierRevenueIgnoresUnpaidOrders(t *testing.T) {
	supplierID := primitive.NewObjectID()

	unpaid := models.Order{IsPaid: false, Items: []models.OrderItem{
		supplierLine(supplierID, 500, 1),
	}}
	orders := []models.Order{unpaid, paidOrder(supplierLine(supplierID, 100, 1))}

	summary := summarizeSupplierRevenue(orders, supplierID, 15)

	assert.Equal(t, 100.0, summary.GrossRevenue)
	assert.Equal(t, 1, summary.OrdersCount)
}

func TestSummarizeSupplierRevenueIgnoresForeignLines(t *testing.T) {
	supplierID := primitive.NewObjectID()
	otherSupplier := primitive.NewObjectID()

	mixed := paidOrder(
		supplierLine(supplierID, 100, 2),
		supplierLine(otherSupplier, 999, 3),
		models.OrderItem{ProductID: primitive.NewObjectID(), Price: 50, Quantity: 1},
	)

	summary := summarizeSupplierRevenue([]models.Order{mixed}, supplierID, 10)

	assert.Equal(t, 200.0, summary.GrossRevenue)
	assert.Equal(t, 1, summary.OrdersCount)
	assert.Equal(t, 2, summary.UnitsSold)
}

func TestSummarizeSupplierRevenueCountsOrderOnce(t *testing.T) {
	supplierID := primitive.NewObjectID()

	order := paidOrder(
		supplierLine(supplierID, 100, 1),
		supplierLine(supplierID, 200, 1),
	)

	summary := summarizeSupplierRevenue([]models.Order{order}, supplierID, 15)

	assert.Equal(t, 1, summary.OrdersCount)
	assert.Equal(t, 300.0, summary.GrossRevenue)
}

func TestSummarizeSupplierRevenueEmpty(t *testing.T) {
	summary := summarizeSupplierRevenue(nil, primitive.NewObjectID(), 15)

	assert.Equal(t, 0.0, summary.GrossRevenue)
	assert.Equal(t, 0.0, summary.CommissionAmount)
	assert.Equal(t, 0.0, summary.NetRevenue)
	assert.Equal(t, 0, summary.OrdersCount)
}
