package views

import (
	"context"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/social"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReactionView struct {
	User string              `json:"user"`
	Type models.ReactionKind `json:"type"`
}

type PostView struct {
	ID           string              `json:"id"`
	Author       AccountSummary      `json:"author"`
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	Image        string              `json:"image"`
	Likes        int                 `json:"likes"`
	Reactions    []ReactionView      `json:"reactions"`
	Comments     int                 `json:"comments"`
	Shares       int                 `json:"shares"`
	Timestamp    time.Time           `json:"timestamp"`
	EditedAt     *time.Time          `json:"editedAt"`
	OriginalPost *PostView           `json:"originalPost"`
	MyReaction   models.ReactionKind `json:"myReaction,omitempty"`
	Saved        bool                `json:"saved"`
}

type CommentView struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Author    AccountSummary `json:"author"`
	Timestamp time.Time      `json:"timestamp"`
	PostID    string         `json:"postId"`
	ParentID  *string        `json:"parentId"`
	Likes     []string       `json:"likes"`
	Replies   []CommentView  `json:"replies"`
}

type MessageView struct {
	ID        string         `json:"id"`
	Sender    AccountSummary `json:"sender"`
	Recipient AccountSummary `json:"recipient"`
	Content   string         `json:"content"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
}

type ConversationView struct {
	PartnerID   string    `json:"partnerId"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Avatar      string    `json:"avatar"`
	LastMessage string    `json:"lastMessage"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
	IsSender    bool      `json:"isSender"`
}

type NotificationPost struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

type NotificationView struct {
	ID        string                  `json:"id"`
	Type      models.NotificationKind `json:"type"`
	Sender    AccountSummary          `json:"sender"`
	Post      *NotificationPost       `json:"post"`
	CommentID *string                 `json:"commentId"`
	Content   string                  `json:"content"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

// Renderer turns stored entities into response views, resolving the
// references each view embeds.
type Renderer struct {
	accounts repositories.AccountRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

func NewRenderer(accounts repositories.AccountRepository, posts repositories.PostRepository, comments repositories.CommentRepository) *Renderer {
	return &Renderer{accounts: accounts, posts: posts, comments: comments}
}

func (r *Renderer) loader(ctx context.Context) *Accounts {
	if a := LoaderFor(ctx); a != nil {
		return a
	}
	return NewAccounts(r.accounts)
}

// Posts renders posts for viewer, who may be nil for anonymous requests.
func (r *Renderer) Posts(ctx context.Context, viewer *models.Account, posts []models.Post) ([]PostView, error) {
	out := make([]PostView, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	var originalIDs []primitive.ObjectID
	for i := range posts {
		if posts[i].OriginalPost != nil {
			originalIDs = append(originalIDs, *posts[i].OriginalPost)
		}
	}
	originals, err := r.posts.GetByIDs(ctx, originalIDs)
	if err != nil {
		return nil, err
	}
	originalByID := make(map[primitive.ObjectID]*models.Post, len(originals))
	for i := range originals {
		originalByID[originals[i].ID] = &originals[i]
	}

	postIDs := make([]primitive.ObjectID, 0, len(posts)+len(originals))
	authorIDs := make([]primitive.ObjectID, 0, len(posts)+len(originals))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID)
		authorIDs = append(authorIDs, posts[i].Author)
	}
	for i := range originals {
		postIDs = append(postIDs, originals[i].ID)
		authorIDs = append(authorIDs, originals[i].Author)
	}

	authors, err := r.loader(ctx).Summaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := r.comments.CountByPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		view := r.post(viewer, &posts[i], authors, counts)
		if id := posts[i].OriginalPost; id != nil {
			if orig, ok := originalByID[*id]; ok {
				ov := r.post(viewer, orig, authors, counts)
				view.OriginalPost = &ov
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// Post renders a single post.
func (r *Renderer) Post(ctx context.Context, viewer *models.Account, post *models.Post) (PostView, error) {
	views, err := r.Posts(ctx, viewer, []models.Post{*post})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

func (r *Renderer) post(viewer *models.Account, p *models.Post, authors map[primitive.ObjectID]AccountSummary, counts map[primitive.ObjectID]int) PostView {
	view := PostView{
		ID:        p.ID.Hex(),
		Author:    authors[p.Author],
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.ImageURL,
		Likes:     len(p.Reactions),
		Reactions: Reactions(p.Reactions),
		Comments:  counts[p.ID],
		Shares:    len(p.Shares),
		Timestamp: p.CreatedAt,
		EditedAt:  p.EditedAt,
	}
	if viewer != nil {
		if kind, ok := p.ReactionOf(viewer.ID); ok {
			view.MyReaction = kind
		}
		view.Saved = social.ContainsID(viewer.SavedPosts, p.ID)
	}
	return view
}

// Reactions renders a reaction set.
func Reactions(set []models.Reaction) []ReactionView {
	out := make([]ReactionView, len(set))
	for i, r := range set {
		out[i] = ReactionView{User: r.User.Hex(), Type: r.Type}
	}
	return out
}

// CommentThread renders the reply tree of a post's comments.
func (r *Renderer) CommentThread(ctx context.Context, comments []models.Comment) ([]CommentView, error) {
	ids := make([]primitive.ObjectID, len(comments))
	for i := range comments {
		ids[i] = comments[i].Author
	}
	authors, err := r.loader(ctx).Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	return commentNodes(social.BuildThread(comments), authors), nil
}

// Comment renders one comment without replies.
func (r *Renderer) Comment(ctx context.Context, c *models.Comment) (CommentView, error) {
	author, err := r.loader(ctx).Summary(ctx, c.Author)
	if err != nil {
		return CommentView{}, err
	}
	return comment(c, author), nil
}

func commentNodes(nodes []*social.ThreadNode, authors map[primitive.ObjectID]AccountSummary) []CommentView {
	out := make([]CommentView, len(nodes))
	for i, n := range nodes {
		view := comment(&n.Comment, authors[n.Comment.Author])
		view.Replies = commentNodes(n.Replies, authors)
		out[i] = view
	}
	return out
}

func comment(c *models.Comment, author AccountSummary) CommentView {
	view := CommentView{
		ID:        c.ID.Hex(),
		Content:   c.Content,
		Author:    author,
		Timestamp: c.CreatedAt,
		PostID:    c.Post.Hex(),
		Likes:     HexIDs(c.Likes),
		Replies:   []CommentView{},
	}
	if c.ParentID != nil {
		hex := c.ParentID.Hex()
		view.ParentID = &hex
	}
	return view
}

func (r *Renderer) Messages(ctx context.Context, messages []models.Message) ([]MessageView, error) {
	ids := make([]primitive.ObjectID, 0, 2*len(messages))
	for i := range messages {
		ids = append(ids, messages[i].Sender, messages[i].Recipient)
	}
	people, err := r.loader(ctx).Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]MessageView, len(messages))
	for i, m := range messages {
		out[i] = MessageView{
			ID:        m.ID.Hex(),
			Sender:    people[m.Sender],
			Recipient: people[m.Recipient],
			Content:   m.Content,
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

func (r *Renderer) Conversations(ctx context.Context, conversations []social.Conversation) ([]ConversationView, error) {
	ids := make([]primitive.ObjectID, len(conversations))
	for i := range conversations {
		ids[i] = conversations[i].PartnerID
	}
	partners, err := r.loader(ctx).Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationView, len(conversations))
	for i, c := range conversations {
		p := partners[c.PartnerID]
		out[i] = ConversationView{
			PartnerID:   c.PartnerID.Hex(),
			Username:    p.Username,
			Name:        p.Name,
			Avatar:      p.Avatar,
			LastMessage: c.LastMessage,
			Timestamp:   c.Timestamp,
			Read:        c.Read,
			IsSender:    c.IsSender,
		}
	}
	return out, nil
}

func (r *Renderer) Notifications(ctx context.Context, items []models.Notification) ([]NotificationView, error) {
	senders := make([]primitive.ObjectID, len(items))
	var postIDs []primitive.ObjectID
	for i := range items {
		senders[i] = items[i].Sender
		if items[i].Post != nil {
			postIDs = append(postIDs, *items[i].Post)
		}
	}
	people, err := r.loader(ctx).Summaries(ctx, senders)
	if err != nil {
		return nil, err
	}
	posts, err := r.posts.GetByIDs(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	postByID := make(map[primitive.ObjectID]*models.Post, len(posts))
	for i := range posts {
		postByID[posts[i].ID] = &posts[i]
	}

	out := make([]NotificationView, len(items))
	for i, n := range items {
		view := NotificationView{
			ID:        n.ID.Hex(),
			Type:      n.Type,
			Sender:    people[n.Sender],
			Content:   n.Content,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.Post != nil {
			if p, ok := postByID[*n.Post]; ok {
				view.Post = &NotificationPost{ID: p.ID.Hex(), Content: p.Content, Image: p.ImageURL}
			}
		}
		if n.Comment != nil {
			hex := n.Comment.Hex()
			view.CommentID = &hex
		}
		out[i] = view
	}
	return out, nil
}
