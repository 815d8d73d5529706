package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
Brand / Category / SubCategory are flat lookup records with the same
CRUD shape; the handlers share one generic implementation over the
collection name.
*/

type catalogEntryRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID string `json:"categoryId"`
}

type catalogEntryUpdateRequest struct {
	Name *string `json:"name"`
}

func GetAllBrandsAdmin(db *mongo.Database) gin.HandlerFunc {
	return listCatalogEntries(db, "brands")
}

func GetAllCategoriesAdmin(db *mongo.Database) gin.HandlerFunc {
	return listCatalogEntries(db, "categories")
}

func GetAllSubCategoriesAdmin(db *mongo.Database) gin.HandlerFunc {
	return listCatalogEntries(db, "subcategories")
}

func listCatalogEntries(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "GET /api/admin/" + collection
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
		cursor, err := db.Collection(collection).Find(ctx, bson.M{}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		entries := make([]bson.M, 0)
		if err := cursor.All(ctx, &entries); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": entries})
	}
}

func CreateBrand(db *mongo.Database) gin.HandlerFunc {
	return createCatalogEntry(db, "brands", false)
}

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return createCatalogEntry(db, "categories", false)
}

func CreateSubCategory(db *mongo.Database) gin.HandlerFunc {
	return createCatalogEntry(db, "subcategories", true)
}

func createCatalogEntry(db *mongo.Database, collection string, requiresCategory bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "POST /api/admin/" + collection
		defer handlePanic(c, route)

		var req catalogEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondWithError(c, http.StatusBadRequest, route, "name required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		entry := bson.M{
			"name":      name,
			"slug":      slugify(name),
			"createdAt": time.Now(),
		}

		if requiresCategory {
			categoryID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CategoryID))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid categoryId")
				return
			}
			count, err := db.Collection("categories").CountDocuments(ctx, bson.M{"_id": categoryID})
			if err != nil {
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if count == 0 {
				respondWithError(c, http.StatusNotFound, route, "category not found")
				return
			}
			entry["categoryId"] = categoryID
		}

		// duplicate check by slug keeps codes unique even without an index
		count, err := db.Collection(collection).CountDocuments(ctx, bson.M{"slug": entry["slug"]})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "entry already exists")
			return
		}

		res, err := db.Collection(collection).InsertOne(ctx, entry)
		if err != nil {
			if isDuplicateKey(err) {
				respondWithError(c, http.StatusConflict, route, "entry already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		entry["_id"] = res.InsertedID

		c.JSON(http.StatusCreated, entry)
	}
}

func UpdateBrand(db *mongo.Database) gin.HandlerFunc {
	return updateCatalogEntry(db, "brands")
}

func UpdateCategory(db *mongo.Database) gin.HandlerFunc {
	return updateCatalogEntry(db, "categories")
}

func UpdateSubCategory(db *mongo.Database) gin.HandlerFunc {
	return updateCatalogEntry(db, "subcategories")
}

func updateCatalogEntry(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "PUT /api/admin/" + collection + "/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req catalogEntryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			respondWithError(c, http.StatusBadRequest, route, "name required")
			return
		}

		name := strings.TrimSpace(*req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated bson.M
		err = db.Collection(collection).FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"name": name, "slug": slugify(name)}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "entry not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteBrand(db *mongo.Database) gin.HandlerFunc {
	return deleteCatalogEntry(db, "brands")
}

func DeleteCategory(db *mongo.Database) gin.HandlerFunc {
	return deleteCatalogEntry(db, "categories")
}

func DeleteSubCategory(db *mongo.Database) gin.HandlerFunc {
	return deleteCatalogEntry(db, "subcategories")
}

func deleteCatalogEntry(db *mongo.Database, collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := "DELETE /api/admin/" + collection + "/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "entry not found")
			return
		}

		c.Status(http.StatusNoContent)
	}
}
