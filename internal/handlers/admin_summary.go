package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"casadimoda-backend/internal/models"
)

// MonthlySales is one year-month bucket of paid order revenue.
type MonthlySales struct {
	Month      string  `json:"month"`
	TotalSales float64 `json:"totalSales"`
	Orders     int     `json:"orders"`
}

// bucketMonthlySales groups paid orders by the year-month of paidAt,
// keeps the most recent maxMonths buckets and returns them ascending.
// Orders without a paidAt stamp are skipped.
func bucketMonthlySales(orders []models.Order, maxMonths int) []MonthlySales {
	byMonth := make(map[string]*MonthlySales)
	for _, order := range orders {
		if !order.IsPaid || order.PaidAt == nil {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", order.PaidAt.Year(), int(order.PaidAt.Month()))
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthlySales{Month: key}
			byMonth[key] = bucket
		}
		bucket.TotalSales += order.TotalPrice
		bucket.Orders++
	}

	buckets := make([]MonthlySales, 0, len(byMonth))
	for _, bucket := range byMonth {
		buckets = append(buckets, *bucket)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })

	if maxMonths > 0 && len(buckets) > maxMonths {
		buckets = buckets[len(buckets)-maxMonths:]
	}
	return buckets
}

/*
GET /api/admin/summary

Headline counts come from CountDocuments, total revenue from a $group
over paid orders, and the monthly chart from the last six months of
paid orders bucketed in memory.
*/
func GetAdminSummary(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/summary"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		counts := gin.H{}
		for name, collection := range map[string]string{
			"users":     "users",
			"products":  "products",
			"orders":    "orders",
			"suppliers": "suppliers",
		} {
			n, err := db.Collection(collection).CountDocuments(ctx, bson.M{})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			counts[name] = n
		}

		totalSales, err := sumPaidOrderTotals(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		since := time.Now().AddDate(0, -6, 0)
		cursor, err := db.Collection("orders").Find(ctx, bson.M{
			"isPaid": true,
			"paidAt": bson.M{"$gte": since},
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		recent := make([]models.Order, 0)
		if err := cursor.All(ctx, &recent); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"counts":       counts,
			"totalSales":   totalSales,
			"monthlySales": bucketMonthlySales(recent, 6),
		})
	}
}

func sumPaidOrderTotals(ctx context.Context, db *mongo.Database) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPaid": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalSales": bson.M{"$sum": "$totalPrice"},
		}}},
	}

	cursor, err := db.Collection("orders").Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalSales float64 `bson:"totalSales"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalSales, nil
}
