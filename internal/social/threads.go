package social

import (
	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ThreadNode is a comment together with its replies.
type ThreadNode struct {
	Comment models.Comment
	Replies []*ThreadNode
}

// BuildThread rebuilds the reply tree of a flat comment list in O(n).
//
// Replies keep the order in which they appear in comments. A comment whose
// parent is not part of the input (for example because the parent was
// deleted) becomes a root instead of being dropped.
func BuildThread(comments []models.Comment) []*ThreadNode {
	nodes := make(map[primitive.ObjectID]*ThreadNode, len(comments))
	ordered := make([]*ThreadNode, len(comments))
	for i := range comments {
		n := &ThreadNode{Comment: comments[i], Replies: []*ThreadNode{}}
		ordered[i] = n
		nodes[comments[i].ID] = n
	}

	roots := make([]*ThreadNode, 0, len(comments))
	for _, n := range ordered {
		parentID := n.Comment.ParentID
		if parentID != nil && *parentID != n.Comment.ID {
			if parent, ok := nodes[*parentID]; ok {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
