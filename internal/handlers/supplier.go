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

	"casadimoda-backend/internal/middleware"
	"casadimoda-backend/internal/models"
)

type supplierRegisterRequest struct {
	BusinessName string                 `json:"businessName" binding:"required"`
	Description  string                 `json:"description"`
	Address      models.SupplierAddress `json:"address" binding:"required"`
}

/*
POST /api/supplier/register
- exempt from the supplier gate (a customer applies here), but still
  requires an authenticated user
- creates the supplier profile as pending and flips the user to the
  supplier role in the same request, so role=supplier ⇔ supplierId
  always holds; admins may not hold a supplier profile
*/
func RegisterSupplier(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/supplier/register"
		defer handlePanic(c, route)

		userID, ok := middleware.UserIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req supplierRegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}
		if user.IsAdmin {
			respondWithError(c, http.StatusForbidden, route, "admins cannot register as suppliers")
			return
		}
		if user.SupplierID != nil {
			respondWithError(c, http.StatusConflict, route, "supplier profile already exists")
			return
		}

		businessName := strings.TrimSpace(req.BusinessName)
		now := time.Now()
		supplier := models.Supplier{
			UserID:         userID,
			BusinessName:   businessName,
			Slug:           slugify(businessName),
			Description:    strings.TrimSpace(req.Description),
			Address:        req.Address,
			Status:         models.SupplierPending,
			CommissionRate: models.DefaultCommissionRate,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := db.Collection("suppliers").InsertOne(ctx, supplier)
		if err != nil {
			if isDuplicateKey(err) {
				respondWithError(c, http.StatusConflict, route, "business name already taken")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		supplier.ID = res.InsertedID.(primitive.ObjectID)

		_, err = db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
			"role":       models.RoleSupplier,
			"supplierId": supplier.ID,
			"updatedAt":  now,
		}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		user.Role = models.RoleSupplier
		user.SupplierID = &supplier.ID
		token, err := issueToken(user, jwtSecret, accessTTL)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.WithField("supplier", supplier.Slug).Info("supplier registered")
		c.JSON(http.StatusCreated, gin.H{
			"supplier": supplier,
			"token":    token,
		})
	}
}

// GetSupplierBySlug is the public storefront page: only approved
// suppliers resolve, and only their visible products are listed.
func GetSupplierBySlug(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/suppliers/:slug"
		defer handlePanic(c, route)

		slug := strings.TrimSpace(c.Param("slug"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var supplier models.Supplier
		err := db.Collection("suppliers").FindOne(ctx, bson.M{
			"slug":   slug,
			"status": models.SupplierApproved,
		}).Decode(&supplier)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "supplier not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		filter := bson.M{
			"supplierId": supplier.ID,
			"$or":        visibilityFilter(),
		}
		cursor, err := db.Collection("products").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"supplier": supplier,
			"products": products,
		})
	}
}

type supplierProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	SubCategory   string   `json:"subCategory"`
	Brand         string   `json:"brand"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	Price         float64  `json:"price" binding:"required"`
	DiscountPrice float64  `json:"discountPrice"`
	CountInStock  int      `json:"countInStock"`
}

// GetSupplierProducts lists the caller's own products, every approval
// status included.
func GetSupplierProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/supplier/products"
		defer handlePanic(c, route)

		supplierID, ok := middleware.SupplierIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusForbidden, route, "supplier profile missing")
			return
		}

		page, pageSize, err := parsePageParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{"supplierId": supplierID}
		if status := strings.TrimSpace(c.Query("status")); hasFilterValue(status) {
			filter["approvalStatus"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(pageSize * (page - 1)).
			SetLimit(pageSize)

		cursor, err := db.Collection("products").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"page":     page,
			"pages":    computePages(total, pageSize),
			"total":    total,
		})
	}
}

// CreateSupplierProduct inserts a pending product; it stays invisible
// to public search until an admin approves it.
func CreateSupplierProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/supplier/products"
		defer handlePanic(c, route)

		supplierID, ok := middleware.SupplierIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusForbidden, route, "supplier profile missing")
			return
		}

		var req supplierProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "invalid price")
			return
		}
		if req.CountInStock < 0 {
			respondWithError(c, http.StatusBadRequest, route, "countInStock must be zero or greater")
			return
		}

		name := strings.TrimSpace(req.Name)
		now := time.Now()
		product := models.Product{
			Name:           name,
			Slug:           slugify(name),
			Category:       strings.TrimSpace(req.Category),
			SubCategory:    strings.TrimSpace(req.SubCategory),
			Brand:          strings.TrimSpace(req.Brand),
			Description:    strings.TrimSpace(req.Description),
			Images:         req.Images,
			Price:          req.Price,
			DiscountPrice:  req.DiscountPrice,
			CountInStock:   req.CountInStock,
			SupplierID:     &supplierID,
			ApprovalStatus: models.ApprovalPending,
			AddedBy:        models.AddedBySupplier,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if isDuplicateKey(err) {
				respondWithError(c, http.StatusConflict, route, "a product with this name already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		product.ID = res.InsertedID.(primitive.ObjectID)

		_, _ = db.Collection("suppliers").UpdateOne(ctx, bson.M{"_id": supplierID},
			bson.M{"$inc": bson.M{"totalProducts": 1}})

		log.WithField("product", product.Slug).Info("supplier product submitted for approval")
		c.JSON(http.StatusCreated, product)
	}
}

type supplierProductUpdateRequest struct {
	Name          *string   `json:"name"`
	Category      *string   `json:"category"`
	SubCategory   *string   `json:"subCategory"`
	Brand         *string   `json:"brand"`
	Description   *string   `json:"description"`
	Images        *[]string `json:"images"`
	Price         *float64  `json:"price"`
	DiscountPrice *float64  `json:"discountPrice"`
	CountInStock  *int      `json:"countInStock"`
}

func UpdateSupplierProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/supplier/products/:id"
		defer handlePanic(c, route)

		supplierID, ok := middleware.SupplierIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusForbidden, route, "supplier profile missing")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req supplierProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		updateSet := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name required")
				return
			}
			updateSet["name"] = name
			updateSet["slug"] = slugify(name)
		}
		if req.Category != nil {
			updateSet["category"] = strings.TrimSpace(*req.Category)
		}
		if req.SubCategory != nil {
			updateSet["subCategory"] = strings.TrimSpace(*req.SubCategory)
		}
		if req.Brand != nil {
			updateSet["brand"] = strings.TrimSpace(*req.Brand)
		}
		if req.Description != nil {
			updateSet["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Images != nil {
			updateSet["images"] = *req.Images
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "invalid price")
				return
			}
			updateSet["price"] = *req.Price
		}
		if req.DiscountPrice != nil {
			updateSet["discountPrice"] = *req.DiscountPrice
		}
		if req.CountInStock != nil {
			if *req.CountInStock < 0 {
				respondWithError(c, http.StatusBadRequest, route, "countInStock must be zero or greater")
				return
			}
			updateSet["countInStock"] = *req.CountInStock
		}

		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}
		updateSet["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID, "supplierId": supplierID},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteSupplierProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/supplier/products/:id"
		defer handlePanic(c, route)

		supplierID, ok := middleware.SupplierIDFromContext(c)
		if !ok {
			respondWithError(c, http.StatusForbidden, route, "supplier profile missing")
			return
		}

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{
			"_id":        productID,
			"supplierId": supplierID,
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		_, _ = db.Collection("suppliers").UpdateOne(ctx, bson.M{"_id": supplierID},
			bson.M{"$inc": bson.M{"totalProducts": -1}})

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
