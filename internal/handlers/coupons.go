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

	"casadimoda-backend/internal/models"
)

type couponRequest struct {
	Code            string    `json:"code" binding:"required"`
	DiscountPercent float64   `json:"discountPercent" binding:"required,gt=0,lte=100"`
	ExpiresAt       time.Time `json:"expiresAt" binding:"required"`
	IsActive        *bool     `json:"isActive"`
}

// ValidateCoupon checks a code for the cart page without applying it.
// The authoritative check happens again inside checkout.
func ValidateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/coupons/validate"
		defer handlePanic(c, route)

		code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
		if code == "" {
			respondWithError(c, http.StatusBadRequest, route, "code required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var coupon models.Coupon
		err := db.Collection("coupons").FindOne(ctx, bson.M{
			"code":      code,
			"isActive":  true,
			"expiresAt": bson.M{"$gt": time.Now()},
		}).Decode(&coupon)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "coupon not valid")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"code":            coupon.Code,
			"discountPercent": coupon.DiscountPercent,
		})
	}
}

func GetAllCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/coupons"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("coupons").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		coupons := make([]models.Coupon, 0)
		if err := cursor.All(ctx, &coupons); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}

func CreateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/coupons"
		defer handlePanic(c, route)

		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.ExpiresAt.Before(time.Now()) {
			respondWithError(c, http.StatusBadRequest, route, "expiresAt must be in the future")
			return
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}

		coupon := models.Coupon{
			Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
			DiscountPercent: req.DiscountPercent,
			ExpiresAt:       req.ExpiresAt,
			IsActive:        active,
			CreatedAt:       time.Now(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("coupons").InsertOne(ctx, coupon)
		if err != nil {
			if isDuplicateKey(err) {
				respondWithError(c, http.StatusConflict, route, "coupon code already exists")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		coupon.ID = res.InsertedID.(primitive.ObjectID)

		c.JSON(http.StatusCreated, coupon)
	}
}

func UpdateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/coupons/:id"
		defer handlePanic(c, route)

		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req struct {
			DiscountPercent *float64   `json:"discountPercent"`
			ExpiresAt       *time.Time `json:"expiresAt"`
			IsActive        *bool      `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		updateSet := bson.M{}
		if req.DiscountPercent != nil {
			if *req.DiscountPercent <= 0 || *req.DiscountPercent > 100 {
				respondWithError(c, http.StatusBadRequest, route, "discountPercent must be between 0 and 100")
				return
			}
			updateSet["discountPercent"] = *req.DiscountPercent
		}
		if req.ExpiresAt != nil {
			updateSet["expiresAt"] = *req.ExpiresAt
		}
		if req.IsActive != nil {
			updateSet["isActive"] = *req.IsActive
		}
		if len(updateSet) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "nothing to update")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Coupon
		err = db.Collection("coupons").FindOneAndUpdate(
			ctx,
			bson.M{"_id": couponID},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "coupon not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/coupons/:id"
		defer handlePanic(c, route)

		couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("coupons").DeleteOne(ctx, bson.M{"_id": couponID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "coupon not found")
			return
		}

		c.Status(http.StatusNoContent)
	}
}
