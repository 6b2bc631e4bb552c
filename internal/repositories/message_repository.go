package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// ListForAccount returns every message the account sent or received, newest first.
	ListForAccount(ctx context.Context, account primitive.ObjectID) ([]models.Message, error)
	// Thread returns the messages between a and b, oldest first.
	Thread(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	// MarkThreadRead marks every message from sender to recipient as read.
	MarkThreadRead(ctx context.Context, sender, recipient primitive.ObjectID) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

func (r *MongoMessageRepository) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

func (r *MongoMessageRepository) ListForAccount(ctx context.Context, account primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": account},
		bson.M{"recipient": account},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return findAll[models.Message](ctx, cur)
}

func (r *MongoMessageRepository) Thread(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": a, "recipient": b},
		bson.M{"sender": b, "recipient": a},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return findAll[models.Message](ctx, cur)
}

func (r *MongoMessageRepository) MarkThreadRead(ctx context.Context, sender, recipient primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"sender": sender, "recipient": recipient, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
