package social

import (
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func comment(id primitive.ObjectID, parent *primitive.ObjectID) models.Comment {
	return models.Comment{ID: id, ParentID: parent, Content: id.Hex()}
}

func TestBuildThread_OrphanBecomesRoot(t *testing.T) {
	c1, c2, c3, missing := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	roots := BuildThread([]models.Comment{
		comment(c1, nil),
		comment(c2, &c1),
		comment(c3, &missing),
	})

	require.Len(t, roots, 2)
	assert.Equal(t, c1, roots[0].Comment.ID)
	assert.Equal(t, c3, roots[1].Comment.ID)
	require.Len(t, roots[0].Replies, 1)
	assert.Equal(t, c2, roots[0].Replies[0].Comment.ID)
	assert.Empty(t, roots[1].Replies)
}

func TestBuildThread_RepliesKeepEncounterOrder(t *testing.T) {
	root := primitive.NewObjectID()
	r1, r2, r3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	roots := BuildThread([]models.Comment{
		comment(r2, &root),
		comment(root, nil),
		comment(r3, &root),
		comment(r1, &root),
	})

	require.Len(t, roots, 1)
	var got []primitive.ObjectID
	for _, n := range roots[0].Replies {
		got = append(got, n.Comment.ID)
	}
	assert.Equal(t, []primitive.ObjectID{r2, r3, r1}, got)
}

func TestBuildThread_DeepNesting(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	roots := BuildThread([]models.Comment{comment(a, nil), comment(b, &a), comment(c, &b)})

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 1)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, c, roots[0].Replies[0].Replies[0].Comment.ID)
}

func TestBuildThread_SelfParentIsRoot(t *testing.T) {
	a := primitive.NewObjectID()

	roots := BuildThread([]models.Comment{comment(a, &a)})

	require.Len(t, roots, 1)
	assert.Equal(t, a, roots[0].Comment.ID)
}

func TestBuildThread_Empty(t *testing.T) {
	assert.Empty(t, BuildThread(nil))
}
