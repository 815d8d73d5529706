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

func GetAllSuppliers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/suppliers"
		defer handlePanic(c, route)

		page, pageSize, err := parsePageParams(c.Query("page"), c.Query("pageSize"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); hasFilterValue(status) {
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		total, err := db.Collection("suppliers").CountDocuments(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip(pageSize * (page - 1)).
			SetLimit(pageSize)

		cursor, err := db.Collection("suppliers").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		suppliers := make([]models.Supplier, 0)
		if err := cursor.All(ctx, &suppliers); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"suppliers": suppliers,
			"page":      page,
			"pages":     computePages(total, pageSize),
			"total":     total,
		})
	}
}

type supplierStatusRequest struct {
	Status         string   `json:"status" binding:"required"`
	StatusNote     string   `json:"statusNote"`
	CommissionRate *float64 `json:"commissionRate"`
}

/*
PUT /api/admin/suppliers/:id/status
- pending→approved/rejected, and approved→suspended (or back); the
  owner is notified by email
*/
func UpdateSupplierStatus(db *mongo.Database, mail *mailer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/suppliers/:id/status"
		defer handlePanic(c, route)

		supplierID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req supplierStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		switch req.Status {
		case models.SupplierApproved, models.SupplierRejected, models.SupplierSuspended:
		default:
			respondWithError(c, http.StatusBadRequest, route, "invalid status")
			return
		}
		if req.CommissionRate != nil && (*req.CommissionRate < 0 || *req.CommissionRate > 100) {
			respondWithError(c, http.StatusBadRequest, route, "commissionRate must be between 0 and 100")
			return
		}

		updateSet := bson.M{
			"status":    req.Status,
			"updatedAt": time.Now(),
		}
		if note := strings.TrimSpace(req.StatusNote); note != "" {
			updateSet["statusNote"] = note
		}
		if req.CommissionRate != nil {
			updateSet["commissionRate"] = *req.CommissionRate
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Supplier
		err = db.Collection("suppliers").FindOneAndUpdate(
			ctx,
			bson.M{"_id": supplierID},
			bson.M{"$set": updateSet},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "supplier not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.WithField("supplier", updated.Slug).WithField("status", req.Status).Info("supplier status updated")

		notifySupplierOwner(ctx, db, mail, updated)

		c.JSON(http.StatusOK, updated)
	}
}

func notifySupplierOwner(ctx context.Context, db *mongo.Database, mail *mailer.Service, supplier models.Supplier) {
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": supplier.UserID}).Decode(&user); err != nil {
		log.WithError(err).Warn("supplier owner lookup failed, skipping notification")
		return
	}
	if err := mail.SendSupplierDecision(user.Email, supplier.BusinessName, supplier.Status, supplier.StatusNote); err != nil {
		log.WithError(err).Warn("supplier decision email failed")
	}
}
