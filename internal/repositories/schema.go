package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

var indexSpecs = []indexSpec{
	{"accounts", mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	}},
	{"accounts", mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	}},
	{"posts", mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_at_desc"),
	}},
	{"posts", mongo.IndexModel{
		Keys:    bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("author_created_at"),
	}},
	{"comments", mongo.IndexModel{
		Keys:    bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("post_created_at"),
	}},
	{"messages", mongo.IndexModel{
		Keys:    bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("pair_created_at"),
	}},
	{"messages", mongo.IndexModel{
		Keys:    bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("recipient_created_at"),
	}},
	{"notifications", mongo.IndexModel{
		Keys:    bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("recipient_created_at"),
	}},
}

// EnsureIndexes creates the MongoDB indexes the repositories rely on.
// Creating an index that already exists is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range indexSpecs {
		if _, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("create index on %s: %w", spec.collection, err)
		}
	}
	return nil
}

// MigratePostgres brings the relational schema up to date.
func MigratePostgres(db *gorm.DB) error {
	return db.AutoMigrate(&models.MediaAsset{})
}
