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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// ListByPost returns the post's comments oldest first.
	ListByPost(ctx context.Context, post primitive.ObjectID) ([]models.Comment, error)
	// CountByPosts returns the number of comments per post id. Posts
	// without comments are absent from the map.
	CountByPosts(ctx context.Context, posts []primitive.ObjectID) (map[primitive.ObjectID]int, error)
	// ToggleLike flips account's like and returns the likers, newest first.
	ToggleLike(ctx context.Context, id, account primitive.ObjectID) ([]primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, post primitive.ObjectID) error
}

type postCount struct {
	Post  primitive.ObjectID `bson:"_id"`
	Count int                `bson:"count"`
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

func (r *MongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, notFound(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) ListByPost(ctx context.Context, post primitive.ObjectID) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.collection.Find(ctx, bson.M{"post": post}, findOptions)
	if err != nil {
		return nil, err
	}
	return findAll[models.Comment](ctx, cur)
}

func (r *MongoCommentRepository) CountByPosts(ctx context.Context, posts []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	counts := make(map[primitive.ObjectID]int, len(posts))
	if len(posts) == 0 {
		return counts, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post": bson.M{"$in": posts}}}},
		{{Key: "$group", Value: bson.M{"_id": "$post", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	rows, err := findAll[postCount](ctx, cur)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.Post] = row.Count
	}
	return counts, nil
}

func (r *MongoCommentRepository) ToggleLike(ctx context.Context, id, account primitive.ObjectID) ([]primitive.ObjectID, error) {
	if _, err := toggleMember(ctx, r.collection, id, "likes", account, true); err != nil {
		return nil, err
	}
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return comment.Likes, nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, post primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"post": post})
	return err
}
