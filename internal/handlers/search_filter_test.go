package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestComposeSearchFilterOmittedEqualsAll(t *testing.T) {
	testCases := []struct {
		name    string
		omitted SearchParams
		all     SearchParams
	}{
		{
			name:    "no params",
			omitted: SearchParams{},
			all: SearchParams{
				Query:       "all",
				Category:    "all",
				SubCategory: "all",
				Brand:       "all",
				Supplier:    "all",
				Price:       "all",
				Rating:      "all",
			},
		},
		{
			name:    "category kept while others default",
			omitted: SearchParams{Category: "dresses"},
			all:     SearchParams{Category: "dresses", Brand: "all", Price: "all"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fromOmitted, err := composeSearchFilter(tc.omitted)
			assert.NoError(t, err)
			fromAll, err := composeSearchFilter(tc.all)
			assert.NoError(t, err)
			assert.Equal(t, fromOmitted, fromAll)
		})
	}
}

func TestComposeSearchFilterAlwaysConjoinsVisibility(t *testing.T) {
	params := []SearchParams{
		{},
		{Query: "silk"},
		{Category: "dresses", Brand: "valentino", Price: "50-150", Rating: "4"},
	}

	for _, p := range params {
		filter, err := composeSearchFilter(p)
		assert.NoError(t, err)

		clauses, ok := filter["$or"].([]bson.M)
		if !ok {
			t.Fatalf("expected visibility $or clause in filter %v", filter)
		}
		assert.Equal(t, visibilityFilter(), clauses)
	}
}

func TestComposeSearchFilterConditions(t *testing.T) {
	supplierID := primitive.NewObjectID()

	filter, err := composeSearchFilter(SearchParams{
		Query:       "gown",
		Category:    "dresses",
		SubCategory: "evening",
		Brand:       "valentino",
		Supplier:    supplierID.Hex(),
		Price:       "50-150",
		Rating:      "4",
	})
	assert.NoError(t, err)

	assert.Equal(t, bson.M{"$regex": "gown", "$options": "i"}, filter["name"])
	assert.Equal(t, "dresses", filter["category"])
	assert.Equal(t, "evening", filter["subCategory"])
	assert.Equal(t, "valentino", filter["brand"])
	assert.Equal(t, supplierID, filter["supplierId"])
	assert.Equal(t, bson.M{"$gte": 50.0, "$lte": 150.0}, filter["price"])
	assert.Equal(t, bson.M{"$gte": 4.0}, filter["rating"])
}

func TestComposeSearchFilterRejectsMalformedInput(t *testing.T) {
	testCases := []struct {
		name   string
		params SearchParams
	}{
		{name: "non-numeric price segment", params: SearchParams{Price: "abc-100"}},
		{name: "single price segment", params: SearchParams{Price: "100"}},
		{name: "too many price segments", params: SearchParams{Price: "10-20-30"}},
		{name: "inverted price range", params: SearchParams{Price: "150-50"}},
		{name: "negative price", params: SearchParams{Price: "-10-20"}},
		{name: "bad rating", params: SearchParams{Rating: "many"}},
		{name: "bad supplier id", params: SearchParams{Supplier: "not-an-id"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := composeSearchFilter(tc.params)
			assert.Error(t, err)
		})
	}
}

func TestParsePriceRangeBounds(t *testing.T) {
	min, max, err := parsePriceRange("50-150")
	assert.NoError(t, err)
	assert.Equal(t, 50.0, min)
	assert.Equal(t, 150.0, max)
}

func TestComposeSortOrder(t *testing.T) {
	testCases := []struct {
		key      string
		expected bson.D
	}{
		{key: "featured", expected: bson.D{{Key: "isFeatured", Value: -1}}},
		{key: "lowest", expected: bson.D{{Key: "price", Value: 1}}},
		{key: "highest", expected: bson.D{{Key: "price", Value: -1}}},
		{key: "toprated", expected: bson.D{{Key: "rating", Value: -1}}},
		{key: "newest", expected: bson.D{{Key: "createdAt", Value: -1}}},
		{key: "", expected: bson.D{{Key: "createdAt", Value: -1}}},
		{key: "bogus", expected: bson.D{{Key: "_id", Value: -1}}},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, composeSortOrder(tc.key), "sort key %q", tc.key)
	}
}
