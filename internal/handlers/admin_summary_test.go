package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"casadimoda-backend/internal/models"
)

func paidOrderAt(paidAt time.Time, total float64) models.Order {
	return models.Order{IsPaid: true, PaidAt: &paidAt, TotalPrice: total}
}

func TestBucketMonthlySalesGroupsByMonth(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		paidOrderAt(jan, 100),
		paidOrderAt(jan.AddDate(0, 0, 15), 50),
		paidOrderAt(feb, 200),
	}

	buckets := bucketMonthlySales(orders, 6)

	assert.Len(t, buckets, 2)
	assert.Equal(t, "2026-01", buckets[0].Month)
	assert.Equal(t, 150.0, buckets[0].TotalSales)
	assert.Equal(t, 2, buckets[0].Orders)
	assert.Equal(t, "2026-02", buckets[1].Month)
	assert.Equal(t, 200.0, buckets[1].TotalSales)
}

func TestBucketMonthlySalesSkipsUnpaid(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		paidOrderAt(jan, 100),
		{IsPaid: false, TotalPrice: 999},
		{IsPaid: true, PaidAt: nil, TotalPrice: 999},
	}

	buckets := bucketMonthlySales(orders, 6)

	assert.Len(t, buckets, 1)
	assert.Equal(t, 100.0, buckets[0].TotalSales)
}

func TestBucketMonthlySalesKeepsMostRecent(t *testing.T) {
	orders := make([]models.Order, 0, 8)
	for m := 1; m <= 8; m++ {
		paidAt := time.Date(2026, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		orders = append(orders, paidOrderAt(paidAt, float64(m)))
	}

	buckets := bucketMonthlySales(orders, 6)

	assert.Len(t, buckets, 6)
	assert.Equal(t, "2026-03", buckets[0].Month)
	assert.Equal(t, "2026-08", buckets[5].Month)
}

func TestBucketMonthlySalesAscendingAcrossYears(t *testing.T) {
	dec := time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	buckets := bucketMonthlySales([]models.Order{
		paidOrderAt(jan, 10),
		paidOrderAt(dec, 20),
	}, 6)

	assert.Equal(t, []string{"2025-12", "2026-01"}, []string{buckets[0].Month, buckets[1].Month})
}

func TestBucketMonthlySalesEmpty(t *testing.T) {
	assert.Empty(t, bucketMonthlySales(nil, 6))
}
