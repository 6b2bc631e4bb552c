package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/repositories/memory"
	"github.com/anonto42/nano-social/backend/internal/social"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSelfFollowAndBlockRejectedForAnyHexCase(t *testing.T) {
	e := newServer(t)
	alice := register(t, e, "alice")
	upper := strings.ToUpper(alice.User.ID)
	require.NotEqual(t, alice.User.ID, upper)

	rec := call(t, e, http.MethodPut, "/api/accounts/follow/"+upper, alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "You cannot follow yourself", decode[apiError](t, rec).Message)

	rec = call(t, e, http.MethodPut, "/api/accounts/block/"+upper, alice.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "You cannot block yourself", decode[apiError](t, rec).Message)

	rec = call(t, e, http.MethodGet, "/api/accounts/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[views.SelfProfile](t, rec)
	assert.Empty(t, me.Followers)
	assert.Empty(t, me.Following)
	assert.Empty(t, me.BlockedUsers)
}

type racingPosts struct {
	*memory.PostRepository
}

func (racingPosts) ApplyReaction(context.Context, primitive.ObjectID, primitive.ObjectID, models.ReactionKind) (*models.Post, social.ReactionChange, error) {
	return nil, social.ReactionChange{}, repositories.ErrConflict
}

func TestReactionConflictIsReported(t *testing.T) {
	e := newServer(t, func(d *Dependencies) {
		d.Posts = racingPosts{memory.NewPostRepository()}
	})
	alice := register(t, e, "alice")
	post := createPost(t, e, alice, "contested")

	rec := call(t, e, http.MethodPost, "/api/posts/"+post.ID+"/reaction", alice.Token, map[string]string{"type": "like"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "Concurrent update, please retry", decode[apiError](t, rec).Message)
}

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("invalid id token")
}

func TestFirebaseLogin(t *testing.T) {
	verifier := fakeVerifier{
		"good": {UID: "uid-1", Claims: map[string]interface{}{"email": "Fb@Example.com", "name": "Fb User"}},
		"anon": {UID: "uid-2", Claims: map[string]interface{}{}},
	}
	e := newServer(t, func(d *Dependencies) { d.FirebaseAuth = verifier })

	rec := call(t, e, http.MethodPost, "/api/accounts/firebase-login", "", map[string]string{"idToken": "good"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[session](t, rec)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "fb@example.com", first.User.Email)

	rec = call(t, e, http.MethodPost, "/api/accounts/firebase-login", "", map[string]string{"idToken": "good"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, first.User.ID, decode[session](t, rec).User.ID)

	rec = call(t, e, http.MethodPost, "/api/accounts/firebase-login", "", map[string]string{"idToken": "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is not valid", decode[apiError](t, rec).Message)

	rec = call(t, e, http.MethodPost, "/api/accounts/firebase-login", "", map[string]string{"idToken": "anon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFirebaseLoginDisabled(t *testing.T) {
	e := newServer(t)
	rec := call(t, e, http.MethodPost, "/api/accounts/firebase-login", "", map[string]string{"idToken": "good"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
