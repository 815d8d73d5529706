package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"casadimoda-backend/internal/models"
)

// filterAll is the sentinel callers send to mean "do not filter on
// this field"; it is equivalent to omitting the parameter.
const filterAll = "all"

// SearchParams is the flat set of optional search inputs, straight from
// the query string.
type SearchParams struct {
	Query       string
	Category    string
	SubCategory string
	Brand       string
	Supplier    string
	Price       string
	Rating      string
	Sort        string
}

// visibilityFilter is the public-catalog rule: a product is visible
// when it was approved, predates the approval workflow, or was added
// by an admin. It is conjoined to every public search regardless of
// caller-supplied filters.
func visibilityFilter() []bson.M {
	return []bson.M{
		{"approvalStatus": models.ApprovalApproved},
		{"approvalStatus": bson.M{"$exists": false}},
		{"addedBy": models.AddedByAdmin},
	}
}

func hasFilterValue(value string) bool {
	return value != "" && value != filterAll
}

// composeSearchFilter translates the optional parameters into one
// conjunctive Mongo filter. Each present, non-"all" parameter
// contributes exactly one condition; malformed numeric input is
// rejected rather than silently propagated into the query.
func composeSearchFilter(params SearchParams) (bson.M, error) {
	filter := bson.M{"$or": visibilityFilter()}

	if q := strings.TrimSpace(params.Query); hasFilterValue(q) {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}
	if category := strings.TrimSpace(params.Category); hasFilterValue(category) {
		filter["category"] = category
	}
	if subCategory := strings.TrimSpace(params.SubCategory); hasFilterValue(subCategory) {
		filter["subCategory"] = subCategory
	}
	if brand := strings.TrimSpace(params.Brand); hasFilterValue(brand) {
		filter["brand"] = brand
	}
	if supplier := strings.TrimSpace(params.Supplier); hasFilterValue(supplier) {
		supplierID, err := primitive.ObjectIDFromHex(supplier)
		if err != nil {
			return nil, fmt.Errorf("invalid supplier: %s", supplier)
		}
		filter["supplierId"] = supplierID
	}
	if price := strings.TrimSpace(params.Price); hasFilterValue(price) {
		min, max, err := parsePriceRange(price)
		if err != nil {
			return nil, err
		}
		filter["price"] = bson.M{"$gte": min, "$lte": max}
	}
	if rating := strings.TrimSpace(params.Rating); hasFilterValue(rating) {
		minRating, err := strconv.ParseFloat(rating, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rating: %s", rating)
		}
		filter["rating"] = bson.M{"$gte": minRating}
	}

	return filter, nil
}

// parsePriceRange parses "min-max" into inclusive bounds. Anything
// that is not two numeric segments is rejected so NaN bounds can never
// reach the store.
func parsePriceRange(value string) (float64, float64, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid price range: %s", value)
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid price range: %s", value)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid price range: %s", value)
	}
	if min < 0 || max < min {
		return 0, 0, fmt.Errorf("invalid price range: %s", value)
	}

	return min, max, nil
}

// composeSortOrder maps a sort key onto a fixed field and direction.
// Unrecognized keys fall back to newest-id-first.
func composeSortOrder(key string) bson.D {
	switch key {
	case "featured":
		return bson.D{{Key: "isFeatured", Value: -1}}
	case "lowest":
		return bson.D{{Key: "price", Value: 1}}
	case "highest":
		return bson.D{{Key: "price", Value: -1}}
	case "toprated":
		return bson.D{{Key: "rating", Value: -1}}
	case "newest", "":
		return bson.D{{Key: "createdAt", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: -1}}
	}
}
