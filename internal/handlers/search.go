package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"casadimoda-backend/internal/models"
)

/*
GET /api/search
- every filter optional; "all" behaves exactly like omission
- response: products, countProducts, page, pages, categories, brands
- facet lists are computed over the visibility filter only, so the
  facet UI always shows the full public catalog dimensions
*/
func Search(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/search"
		defer handlePanic(c, route)

		page, pageSize, err := parsePageParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		params := SearchParams{
			Query:       c.Query("q"),
			Category:    c.Query("category"),
			SubCategory: c.Query("subCategory"),
			Brand:       c.Query("brand"),
			Supplier:    c.Query("supplier"),
			Price:       c.Query("price"),
			Rating:      c.Query("rating"),
			Sort:        c.Query("sort"),
		}

		filter, err := composeSearchFilter(params)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		products := db.Collection("products")

		total, err := products.CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		findOptions := options.Find().
			SetSort(composeSortOrder(params.Sort)).
			SetSkip(pageSize * (page - 1)).
			SetLimit(pageSize)

		cursor, err := products.Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		results := make([]models.Product, 0)
		if err := cursor.All(ctx, &results); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		categories, err := distinctStrings(ctx, products, "category")
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		brands, err := distinctStrings(ctx, products, "brand")
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.WithField("route", route).Debugf("returning %d of %d products", len(results), total)
		c.JSON(http.StatusOK, gin.H{
			"products":      results,
			"countProducts": total,
			"page":          page,
			"pages":         computePages(total, pageSize),
			"categories":    categories,
			"brands":        brands,
		})
	}
}

// distinctStrings lists the facet values of one field across the
// visibility-filtered (not further-filtered) catalog.
func distinctStrings(ctx context.Context, products *mongo.Collection, field string) ([]string, error) {
	values, err := products.Distinct(ctx, field, bson.M{"$or": visibilityFilter()})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
