package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostFilter narrows a feed listing. A nil Author lists every post.
type PostFilter struct {
	Author *primitive.ObjectID
	Skip   int64
	Limit  int64
}

// PostEdit describes an author's edit. Empty Content keeps the stored body.
type PostEdit struct {
	Title   *string
	Content string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	// List returns posts newest first.
	List(ctx context.Context, filter PostFilter) ([]models.Post, error)
	// Trending returns posts ordered by reaction count, ties broken by recency.
	Trending(ctx context.Context, limit int64) ([]models.Post, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, edit PostEdit) (*models.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ApplyReaction toggles account's reaction and returns the updated post.
	ApplyReaction(ctx context.Context, id, account primitive.ObjectID, kind models.ReactionKind) (*models.Post, social.ReactionChange, error)
	AddShare(ctx context.Context, id, account primitive.ObjectID) error
	Search(ctx context.Context, query string, limit int64) ([]models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Create creates a new post in MongoDB
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.EnsureSets()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func (r *MongoPostRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	cur, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return findAll[models.Post](ctx, cur)
}

func (r *MongoPostRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query := bson.M{}
	if filter.Author != nil {
		query["author"] = *filter.Author
	}
	findOptions := options.Find().
		SetSkip(filter.Skip).
		SetLimit(filter.Limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	return findAll[models.Post](ctx, cur)
}

func (r *MongoPostRepository) Trending(ctx context.Context, limit int64) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.M{
			"reaction_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$reactions", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "reaction_count", Value: -1}, {Key: "created_at", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"reaction_count": 0}}},
	}
	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return findAll[models.Post](ctx, cur)
}

// UpdateContent applies an edit and stamps edited_at.
func (r *MongoPostRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, edit PostEdit) (*models.Post, error) {
	set := bson.M{"edited_at": time.Now().UTC()}
	if edit.Content != "" {
		set["content"] = edit.Content
	}
	if edit.Title != nil {
		set["title"] = *edit.Title
	}

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// Delete deletes a post by ID from MongoDB
func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyReaction computes the toggle from a snapshot and writes it with a
// filter asserting the snapshot still holds. A lost race re-reads and retries.
func (r *MongoPostRepository) ApplyReaction(ctx context.Context, id, account primitive.ObjectID, kind models.ReactionKind) (*models.Post, social.ReactionChange, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		post, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, social.ReactionChange{}, err
		}
		next, change := social.ApplyReaction(post.Reactions, account, kind)

		var filter, update bson.M
		switch change.Outcome {
		case social.ReactionAdded:
			filter = bson.M{"_id": id, "reactions.user": bson.M{"$ne": account}}
			update = bson.M{"$push": bson.M{"reactions": models.Reaction{User: account, Type: kind}}}
		case social.ReactionRemoved:
			filter = bson.M{"_id": id, "reactions": bson.M{"$elemMatch": bson.M{"user": account, "type": change.Previous}}}
			update = bson.M{"$pull": bson.M{"reactions": bson.M{"user": account}}}
		default:
			filter = bson.M{"_id": id, "reactions": bson.M{"$elemMatch": bson.M{"user": account, "type": change.Previous}}}
			update = bson.M{"$set": bson.M{"reactions.$.type": kind}}
		}

		res, err := r.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return nil, social.ReactionChange{}, err
		}
		if res.MatchedCount == 1 {
			post.Reactions = next
			return post, change, nil
		}
	}
	return nil, social.ReactionChange{}, ErrConflict
}

// AddShare records that account shared the post.
func (r *MongoPostRepository) AddShare(ctx context.Context, id, account primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"shares": account}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches query literally and case-insensitively against title and body.
func (r *MongoPostRepository) Search(ctx context.Context, query string, limit int64) ([]models.Post, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"content": pattern},
		bson.M{"title": pattern},
	}}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	return findAll[models.Post](ctx, cur)
}
