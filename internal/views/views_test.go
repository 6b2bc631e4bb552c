package views

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories/memory"
	"github.com/anonto42/nano-social/backend/internal/social"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingAccounts struct {
	*memory.AccountRepository
	calls atomic.Int32
}

func (c *countingAccounts) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	c.calls.Add(1)
	return c.AccountRepository.GetByIDs(ctx, ids)
}

type fixture struct {
	accounts *countingAccounts
	posts    *memory.PostRepository
	comments *memory.CommentRepository
	renderer *Renderer
	alice    *models.Account
	bob      *models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts: &countingAccounts{AccountRepository: memory.NewAccountRepository()},
		posts:    memory.NewPostRepository(),
		comments: memory.NewCommentRepository(),
	}
	f.renderer = NewRenderer(f.accounts, f.posts, f.comments)

	ctx := context.Background()
	f.alice = &models.Account{Username: "alice", Email: "alice@example.com", FullName: "Alice", AvatarURL: "/a.png"}
	f.bob = &models.Account{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, f.accounts.Create(ctx, f.alice))
	require.NoError(t, f.accounts.Create(ctx, f.bob))
	return f
}

func TestAccounts_SummariesBatchAndPlaceholder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ghost := primitive.NewObjectID()
	loader := NewAccounts(f.accounts)

	got, err := loader.Summaries(ctx, []primitive.ObjectID{f.alice.ID, f.bob.ID, f.alice.ID, ghost})
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.accounts.calls.Load())
	assert.Equal(t, AccountSummary{ID: f.alice.ID.Hex(), Name: "Alice", Username: "alice", Avatar: "/a.png"}, got[f.alice.ID])
	assert.Equal(t, "bob", got[f.bob.ID].Name, "name falls back to handle")
	assert.Equal(t, UnknownAccount, got[ghost])
}

func TestAccounts_ConcurrentLoadsShareBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	loader := NewAccounts(f.accounts)

	var wg sync.WaitGroup
	for _, id := range []primitive.ObjectID{f.alice.ID, f.bob.ID, f.alice.ID} {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_, err := loader.Summary(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.LessOrEqual(t, f.accounts.calls.Load(), int32(2))
}

func TestRenderer_PostsWithOriginalAndViewerState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original := &models.Post{Author: f.alice.ID, Content: "original", ImageURL: "/img.png"}
	require.NoError(t, f.posts.Create(ctx, original))
	_, _, err := f.posts.ApplyReaction(ctx, original.ID, f.bob.ID, models.ReactionWow)
	require.NoError(t, err)
	original, err = f.posts.GetByID(ctx, original.ID)
	require.NoError(t, err)

	share := &models.Post{Author: f.bob.ID, Content: "look", OriginalPost: &original.ID}
	require.NoError(t, f.posts.Create(ctx, share))
	require.NoError(t, f.comments.Create(ctx, &models.Comment{Post: original.ID, Author: f.bob.ID, Content: "c"}))

	f.bob.SavedPosts = []primitive.ObjectID{original.ID}
	views, err := f.renderer.Posts(ctx, f.bob, []models.Post{*share, *original})
	require.NoError(t, err)
	require.Len(t, views, 2)

	shared := views[0]
	assert.Equal(t, "bob", shared.Author.Username)
	require.NotNil(t, shared.OriginalPost)
	assert.Equal(t, original.ID.Hex(), shared.OriginalPost.ID)
	assert.Equal(t, "alice", shared.OriginalPost.Author.Username)

	orig := views[1]
	assert.Equal(t, 1, orig.Likes)
	assert.Equal(t, 1, orig.Comments)
	assert.Equal(t, "/img.png", orig.Image)
	assert.Equal(t, models.ReactionWow, orig.MyReaction)
	assert.True(t, orig.Saved)
	assert.Equal(t, []ReactionView{{User: f.bob.ID.Hex(), Type: models.ReactionWow}}, orig.Reactions)

	anon, err := f.renderer.Posts(ctx, nil, []models.Post{*original})
	require.NoError(t, err)
	assert.Empty(t, anon[0].MyReaction)
	assert.False(t, anon[0].Saved)
}

func TestRenderer_CommentThread(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post := primitive.NewObjectID()

	root := &models.Comment{Post: post, Author: f.alice.ID, Content: "root"}
	require.NoError(t, f.comments.Create(ctx, root))
	reply := &models.Comment{Post: post, Author: f.bob.ID, Content: "reply", ParentID: &root.ID}
	require.NoError(t, f.comments.Create(ctx, reply))

	list, err := f.comments.ListByPost(ctx, post)
	require.NoError(t, err)
	tree, err := f.renderer.CommentThread(ctx, list)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Nil(t, tree[0].ParentID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, "bob", tree[0].Replies[0].Author.Username)
	assert.Equal(t, root.ID.Hex(), *tree[0].Replies[0].ParentID)
	assert.NotNil(t, tree[0].Replies[0].Replies)
}

func TestRenderer_ConversationsUseUnknownForDeletedPartner(t *testing.T) {
	f := newFixture(t)
	ghost := primitive.NewObjectID()

	got, err := f.renderer.Conversations(context.Background(), []social.Conversation{
		{PartnerID: f.bob.ID, LastMessage: "hi"},
		{PartnerID: ghost, LastMessage: "anyone?"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob", got[0].Username)
	assert.Equal(t, "unknown", got[1].Username)
	assert.Equal(t, ghost.Hex(), got[1].PartnerID)
}

func TestSelfAndPublicProfiles(t *testing.T) {
	a := &models.Account{ID: primitive.NewObjectID(), Username: "alice", Email: "a@x.io", Role: models.RoleUser}

	self := Self(a)
	assert.Equal(t, "a@x.io", self.Email)
	assert.NotNil(t, self.SavedPosts)
	assert.NotNil(t, self.Followers)

	pub := Public(a)
	assert.Equal(t, "alice", pub.Username)
}
