package social

import (
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyReaction_AddThenSameKindRemoves(t *testing.T) {
	a := primitive.NewObjectID()

	set, change := ApplyReaction(nil, a, models.ReactionLike)
	require.Len(t, set, 1)
	assert.Equal(t, ReactionAdded, change.Outcome)
	assert.Equal(t, models.Reaction{User: a, Type: models.ReactionLike}, set[0])

	set, change = ApplyReaction(set, a, models.ReactionLike)
	assert.Empty(t, set)
	assert.Equal(t, ReactionRemoved, change.Outcome)
	assert.Equal(t, models.ReactionLike, change.Previous)
}

func TestApplyReaction_DifferentKindSwitches(t *testing.T) {
	a := primitive.NewObjectID()

	set, _ := ApplyReaction(nil, a, models.ReactionLike)
	set, change := ApplyReaction(set, a, models.ReactionLove)

	require.Len(t, set, 1)
	assert.Equal(t, models.ReactionLove, set[0].Type)
	assert.Equal(t, ReactionSwitched, change.Outcome)
	assert.Equal(t, models.ReactionLike, change.Previous)
}

func TestApplyReaction_KeepsOtherAccountsAndPosition(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	current := []models.Reaction{
		{User: a, Type: models.ReactionWow},
		{User: b, Type: models.ReactionSad},
		{User: c, Type: models.ReactionHaha},
	}

	set, _ := ApplyReaction(current, b, models.ReactionAngry)

	require.Len(t, set, 3)
	assert.Equal(t, a, set[0].User)
	assert.Equal(t, models.Reaction{User: b, Type: models.ReactionAngry}, set[1])
	assert.Equal(t, c, set[2].User)
	assert.Equal(t, models.ReactionSad, current[1].Type, "input must not be mutated")
}

func TestApplyReaction_SizeNeverExceedsDistinctReactors(t *testing.T) {
	accounts := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	var set []models.Reaction

	for round := 0; round < 20; round++ {
		acct := accounts[round%len(accounts)]
		kind := models.ReactionKinds[round%len(models.ReactionKinds)]
		set, _ = ApplyReaction(set, acct, kind)

		perAccount := map[primitive.ObjectID]int{}
		for _, r := range set {
			perAccount[r.User]++
		}
		for _, n := range perAccount {
			assert.Equal(t, 1, n)
		}
		assert.LessOrEqual(t, len(set), len(accounts))
	}
}

func TestToggleID(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	ids, in := ToggleID(nil, a)
	assert.True(t, in)
	ids, in = ToggleID(ids, b)
	assert.True(t, in)
	assert.Equal(t, []primitive.ObjectID{b, a}, ids)

	ids, in = ToggleID(ids, a)
	assert.False(t, in)
	assert.Equal(t, []primitive.ObjectID{b}, ids)
	assert.False(t, ContainsID(ids, a))
}
