package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the uniqueness and lookup indexes the handlers
// rely on. Safe to call on every startup; Mongo treats identical index
// definitions as a no-op.
func EnsureIndexes(db *mongo.Database, log *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: "products",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("slug_unique").SetUnique(true),
			},
		},
		{
			collection: "users",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			},
		},
		{
			collection: "suppliers",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("slug_unique").SetUnique(true),
			},
		},
		{
			collection: "wishlists",
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "userId", Value: 1},
					{Key: "productId", Value: 1},
				},
				Options: options.Index().SetName("user_product_unique").SetUnique(true),
			},
		},
		{
			collection: "coupons",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetName("code_unique").SetUnique(true),
			},
		},
		{
			collection: "gift_cards",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetName("code_unique").SetUnique(true),
			},
		},
		{
			collection: "orders",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetName("userId_index"),
			},
		},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			log.WithFields(logrus.Fields{
				"collection": spec.collection,
			}).WithError(err).Error("index creation failed")
			return err
		}
	}

	log.Info("database indexes ensured")
	return nil
}
