package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"casadimoda-backend/internal/models"
)

type issueGiftCardRequest struct {
	Balance  float64 `json:"balance" binding:"required,gt=0"`
	IssuedTo string  `json:"issuedTo"`
}

func newGiftCardCode() string {
	// 12 uuid hex chars keep the code short enough to type
	raw := strings.ReplaceAll(strings.ToUpper(uuid.NewString()), "-", "")
	return "GC-" + raw[:6] + "-" + raw[6:12]
}

func IssueGiftCard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/gift-cards"
		defer handlePanic(c, route)

		var req issueGiftCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		card := models.GiftCard{
			Code:      newGiftCardCode(),
			Balance:   req.Balance,
			IsActive:  true,
			CreatedAt: time.Now(),
		}
		if strings.TrimSpace(req.IssuedTo) != "" {
			userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.IssuedTo))
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid issuedTo")
				return
			}
			card.IssuedTo = &userID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("gift_cards").InsertOne(ctx, card)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		card.ID = res.InsertedID.(primitive.ObjectID)

		log.WithField("code", card.Code).Info("gift card issued")

		c.JSON(http.StatusCreated, card)
	}
}

func GetAllGiftCards(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/gift-cards"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("gift_cards").Find(ctx, bson.M{}, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		cards := make([]models.GiftCard, 0)
		if err := cursor.All(ctx, &cards); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"giftCards": cards})
	}
}

func DeactivateGiftCard(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/gift-cards/:id/deactivate"
		defer handlePanic(c, route)

		cardID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.GiftCard
		err = db.Collection("gift_cards").FindOneAndUpdate(
			ctx,
			bson.M{"_id": cardID},
			bson.M{"$set": bson.M{"isActive": false}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "gift card not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

// GetGiftCardBalance lets a signed-in user look up a code they hold.
func GetGiftCardBalance(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/gift-cards/balance"
		defer handlePanic(c, route)

		code := strings.ToUpper(strings.TrimSpace(c.Query("code")))
		if code == "" {
			respondWithError(c, http.StatusBadRequest, route, "code required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var card models.GiftCard
		err := db.Collection("gift_cards").FindOne(ctx, bson.M{
			"code":     code,
			"isActive": true,
		}).Decode(&card)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "gift card not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"code": card.Code, "balance": card.Balance})
	}
}
