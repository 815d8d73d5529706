package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"casadimoda-backend/internal/middleware"
	"casadimoda-backend/internal/models"
)

// SupplierRevenue is the paid-orders slice of a supplier summary:
// gross revenue over the supplier's own lines, the platform cut, and
// what is left.
type SupplierRevenue struct {
	OrdersCount      int     `json:"ordersCount"`
	UnitsSold        int     `json:"unitsSold"`
	GrossRevenue     float64 `json:"grossRevenue"`
	CommissionRate   float64 `json:"commissionRate"`
	CommissionAmount float64 `json:"commissionAmount"`
	NetRevenue       float64 `json:"netRevenue"`
}

// summarizeSupplierRevenue scans orders for lines belonging to the
// supplier. Only paid orders count; an order contributes to OrdersCount
// once no matter how many of its lines match. Pure function of its
// inputs, recomputed on every call.
func summarizeSupplierRevenue(orders []models.Order, supplierID primitive.ObjectID, commissionRate float64) SupplierRevenue {
	summary := SupplierRevenue{CommissionRate: commissionRate}

	for _, order := range orders {
		if !order.IsPaid {
			continue
		}
		touched := false
		for _, item := range order.Items {
			if item.SupplierID == nil || *item.SupplierID != supplierID {
				continue
			}
			touched = true
			summary.UnitsSold += item.Quantity
			summary.GrossRevenue += item.Price * float64(item.Quantity)
		}
		if touched {
			summary.OrdersCount++
		}
	}

	summary.CommissionAmount = summary.GrossRevenue * commissionRate / 100
	summary.NetRevenue = summary.GrossRevenue - summary.CommissionAmount
	return summary
}

/*
GET /api/supplier/summary
- product counts by approval status plus the revenue scan above
- no materialized view: derived from current Order/Product/Supplier
  state at call time
*/
func GetSupplierSummary(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/supplier/summary"
		defer handlePanic(c, route)

		supplierID, ok := middleware.SupplierIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusForbidden, route, "supplier profile missing")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var supplier models.Supplier
		err := db.Collection("suppliers").FindOne(ctx, bson.M{"_id": supplierID}).Decode(&supplier)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "supplier not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		products := db.Collection("products")
		productCounts := gin.H{}
		for _, status := range []string{models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected} {
			count, err := products.CountDocuments(ctx, bson.M{
				"supplierId":     supplierID,
				"approvalStatus": status,
			})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			productCounts[status] = count
		}

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"items.supplierId": supplierID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		revenue := summarizeSupplierRevenue(orders, supplierID, supplier.CommissionRate)

		c.JSON(http.StatusOK, gin.H{
			"supplier": gin.H{
				"id":           supplier.ID.Hex(),
				"businessName": supplier.BusinessName,
				"status":       supplier.Status,
			},
			"products": productCounts,
			"revenue":  revenue,
		})
	}
}
