package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// toggleMember flips member's presence in the array field of document id.
// Each branch is a single conditional update, so two concurrent toggles can
// never leave a duplicate entry. prepend inserts new members at index 0.
// Returns true when member is in the set afterwards.
func toggleMember(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field string, member primitive.ObjectID, prepend bool) (bool, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		res, err := coll.UpdateOne(ctx,
			bson.M{"_id": id, field: member},
			bson.M{"$pull": bson.M{field: member}},
		)
		if err != nil {
			return false, err
		}
		if res.MatchedCount > 0 {
			return false, nil
		}

		push := bson.M{field: member}
		if prepend {
			push = bson.M{field: bson.M{"$each": bson.A{member}, "$position": 0}}
		}
		res, err = coll.UpdateOne(ctx,
			bson.M{"_id": id, field: bson.M{"$ne": member}},
			bson.M{"$push": push},
		)
		if err != nil {
			return false, err
		}
		if res.MatchedCount > 0 {
			return true, nil
		}

		n, err := coll.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
		// the member was added between the two updates; try again
	}
	return false, ErrConflict
}

// setMember adds (present=true) or removes member from the array field
// without toggling. It is idempotent.
func setMember(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field string, member primitive.ObjectID, present bool) error {
	op := "$pull"
	if present {
		op = "$addToSet"
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{op: bson.M{field: member}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func findAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	defer cur.Close(ctx)
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
