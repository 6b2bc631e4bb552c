package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.Account, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	// ToggleFollow flips actor's follow of target and reports whether actor
	// now follows target.
	ToggleFollow(ctx context.Context, actor, target primitive.ObjectID) (bool, error)
	// ToggleSaved flips post in the account's saved list and returns the new state and list.
	ToggleSaved(ctx context.Context, account, post primitive.ObjectID) (bool, []primitive.ObjectID, error)
	SetBlocked(ctx context.Context, account, target primitive.ObjectID, blocked bool) ([]primitive.ObjectID, error)
	// RemoveSavedPost drops post from every account's saved list.
	RemoveSavedPost(ctx context.Context, post primitive.ObjectID) error
	Search(ctx context.Context, query string, limit int64) ([]models.Account, error)
}

// MongoAccountRepository implements AccountRepository for MongoDB
type MongoAccountRepository struct {
	collection *mongo.Collection
}

// NewMongoAccountRepository creates a new MongoAccountRepository
func NewMongoAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{collection: db.Collection("accounts")}
}

// Create inserts a new account. Unique index violations map to ErrDuplicate.
func (r *MongoAccountRepository) Create(ctx context.Context, account *models.Account) error {
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now().UTC()
	if account.Role == "" {
		account.Role = models.RoleUser
	}
	account.EnsureSets()

	if _, err := r.collection.InsertOne(ctx, account); err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *MongoAccountRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByIDs returns the accounts that exist among ids, in no particular order.
func (r *MongoAccountRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	if len(ids) == 0 {
		return []models.Account{}, nil
	}
	cur, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return findAll[models.Account](ctx, cur)
}

func (r *MongoAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByEmailOrUsername returns the first account holding either value.
func (r *MongoAccountRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}})
}

// UpdateProfile sets only the provided fields and returns the stored account.
func (r *MongoAccountRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.Account, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}
	set := bson.M{}
	for k, v := range update.Fields() {
		set[k] = v
	}

	var account models.Account
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&account)
	if err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (r *MongoAccountRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFollow flips actor in target's followers first; the actor's
// following list is then brought in line with that result. The actor is
// checked up front so a missing actor never leaves the target half updated.
func (r *MongoAccountRepository) ToggleFollow(ctx context.Context, actor, target primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": actor}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrNotFound
	}
	following, err := toggleMember(ctx, r.collection, target, "followers", actor, false)
	if err != nil {
		return false, err
	}
	if err := setMember(ctx, r.collection, actor, "following", target, following); err != nil {
		return false, err
	}
	return following, nil
}

func (r *MongoAccountRepository) ToggleSaved(ctx context.Context, account, post primitive.ObjectID) (bool, []primitive.ObjectID, error) {
	saved, err := toggleMember(ctx, r.collection, account, "saved_posts", post, true)
	if err != nil {
		return false, nil, err
	}
	acct, err := r.GetByID(ctx, account)
	if err != nil {
		return false, nil, err
	}
	return saved, acct.SavedPosts, nil
}

func (r *MongoAccountRepository) SetBlocked(ctx context.Context, account, target primitive.ObjectID, blocked bool) ([]primitive.ObjectID, error) {
	if err := setMember(ctx, r.collection, account, "blocked_users", target, blocked); err != nil {
		return nil, err
	}
	acct, err := r.GetByID(ctx, account)
	if err != nil {
		return nil, err
	}
	return acct.BlockedUsers, nil
}

func (r *MongoAccountRepository) RemoveSavedPost(ctx context.Context, post primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"saved_posts": post},
		bson.M{"$pull": bson.M{"saved_posts": post}},
	)
	return err
}

// Search matches query literally and case-insensitively against handle, name and email.
func (r *MongoAccountRepository) Search(ctx context.Context, query string, limit int64) ([]models.Account, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"full_name": pattern},
		bson.M{"email": pattern},
	}}
	cur, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	return findAll[models.Account](ctx, cur)
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := r.collection.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}
