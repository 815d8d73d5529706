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

	"casadimoda-backend/internal/mailer"
	"casadimoda-backend/internal/models"
)

type adminProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	SubCategory   string   `json:"subCategory"`
	Brand         string   `json:"brand"`
	Description   string   `json:"description"`
	Images        []string `json:"images"`
	Price         float64  `json:"price" binding:"required"`
	DiscountPrice float64  `json:"discountPrice"`
	CountInStock  int      `json:"countInStock"`
	IsFeatured    bool     `json:"isFeatured"`
}

type adminProductUpdateRequest struct {
	Name          *string   `json:"name"`
	Category      *string   `json:"category"`
	SubCategory   *string   `json:"subCategory"`
	Brand         *string   `json:"brand"`
	Description   *string   `json:"description"`
	Images        *[]string `json:"images"`
	Price         *float64  `json:"price"`
	DiscountPrice *float64  `json:"discountPrice"`
	CountInStock  *int      `json:"countInStock"`
	IsFeatured    *bool     `json:"isFeatured"`
}

/*
GET /api/admin/products
- full catalog, every approval status, for the back-office table
*/
func GetAllProductsAdmin(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"
		defer handlePanic(c, route)

		page, pageSize, err := parsePageParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if search := strings.TrimSpace(c.Query("q")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"brand": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}
		if category := strings.TrimSpace(c.Query("category")); hasFilterValue(category) {
			filter["category"] = category
		}
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

// CreateAdminProduct inserts an admin-added product. These are live
// immediately: addedBy=admin satisfies the visibility rule.
func CreateAdminProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products"
		defer handlePanic(c, route)

		var req adminProductRequest
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
			IsFeatured:     req.IsFeatured,
			ApprovalStatus: models.ApprovalApproved,
			AddedBy:        models.AddedByAdmin,
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

		c.JSON(http.StatusCreated, product)
	}
}

func UpdateAdminProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req adminProductUpdateRequest
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
		if req.IsFeatured != nil {
			updateSet["isFeatured"] = *req.IsFeatured
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
			bson.M{"_id": productID},
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

func DeleteAdminProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

/*
GET /api/admin/products/approve?status&page
- the approval queue: supplier-submitted products by status, pending
  by default
*/
func GetApprovalQueue(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products/approve"
		defer handlePanic(c, route)

		page, pageSize, err := parsePageParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		status := strings.TrimSpace(c.Query("status"))
		if status == "" {
			status = models.ApprovalPending
		}
		if status != models.ApprovalPending && status != models.ApprovalApproved && status != models.ApprovalRejected {
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}

		filter := bson.M{
			"addedBy":        models.AddedBySupplier,
			"approvalStatus": status,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("products").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: 1}}).
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

type productApprovalRequest struct {
	ID           string `json:"id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	ApprovalNote string `json:"approvalNote"`
}

/*
PUT /api/admin/products/approve
- transitions a supplier product pending→approved/rejected and mails
  the supplier owner; a failed mail never fails the transition
*/
func DecideProductApproval(db *mongo.Database, mail *mailer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/approve"
		defer handlePanic(c, route)

		var req productApprovalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}
		if req.Status != models.ApprovalApproved && req.Status != models.ApprovalRejected {
			respondWithError(c, http.StatusBadRequest, route, "status must be approved or rejected")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		updateSet := bson.M{
			"approvalStatus": req.Status,
			"updatedAt":      time.Now(),
		}
		if note := strings.TrimSpace(req.ApprovalNote); note != "" {
			updateSet["approvalNote"] = note
		}

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": productID, "addedBy": models.AddedBySupplier},
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

		log.WithField("product", updated.Slug).WithField("status", req.Status).Info("product approval decided")

		if updated.SupplierID != nil {
			if email, err := supplierOwnerEmail(ctx, db, *updated.SupplierID); err == nil {
				if err := mail.SendProductDecision(email, updated.Name, req.Status, updated.ApprovalNote); err != nil {
					log.WithError(err).Warn("product decision email failed")
				}
			}
		}

		c.JSON(http.StatusOK, updated)
	}
}

func supplierOwnerEmail(ctx context.Context, db *mongo.Database, supplierID primitive.ObjectID) (string, error) {
	var supplier models.Supplier
	if err := db.Collection("suppliers").FindOne(ctx, bson.M{"_id": supplierID}).Decode(&supplier); err != nil {
		return "", err
	}
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": supplier.UserID}).Decode(&user); err != nil {
		return "", err
	}
	return user.Email, nil
}
