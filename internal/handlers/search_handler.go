package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/labstack/echo/v4"
)

const (
	searchUserLimit = 10
	searchPostLimit = 20

	searchAll   = "all"
	searchUsers = "users"
	searchPosts = "posts"
)

// SearchHandler serves the combined account and post search.
type SearchHandler struct {
	accounts repositories.AccountRepository
	posts    repositories.PostRepository
	renderer *views.Renderer
}

func NewSearchHandler(accounts repositories.AccountRepository, posts repositories.PostRepository, renderer *views.Renderer) *SearchHandler {
	return &SearchHandler{accounts: accounts, posts: posts, renderer: renderer}
}

func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("", h.Search)
}

type searchUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers"`
}

type searchResult struct {
	Users []searchUser     `json:"users"`
	Posts []views.PostView `json:"posts"`
}

// Search matches q case-insensitively. type selects users, posts or all
// (the default); a leading "@" always searches users by handle. Any other
// type matches nothing.
func (h *SearchHandler) Search(c echo.Context) error {
	result := searchResult{Users: []searchUser{}, Posts: []views.PostView{}}
	q := strings.TrimSpace(c.QueryParam("q"))
	kind := strings.ToLower(c.QueryParam("type"))
	if kind == "" {
		kind = searchAll
	}
	if rest, ok := strings.CutPrefix(q, "@"); ok {
		q = strings.TrimSpace(rest)
		kind = searchUsers
	}
	if q == "" || (kind != searchAll && kind != searchUsers && kind != searchPosts) {
		return c.JSON(http.StatusOK, result)
	}
	ctx := c.Request().Context()

	if kind != searchPosts {
		accounts, err := h.accounts.Search(ctx, q, searchUserLimit)
		if err != nil {
			return err
		}
		for i := range accounts {
			s := views.Summary(&accounts[i])
			result.Users = append(result.Users, searchUser{
				ID:        s.ID,
				Username:  s.Username,
				Name:      s.Name,
				Avatar:    s.Avatar,
				Bio:       accounts[i].Bio,
				Followers: len(accounts[i].Followers),
			})
		}
	}

	if kind != searchUsers {
		posts, err := h.posts.Search(ctx, q, searchPostLimit)
		if err != nil {
			return err
		}
		rendered, err := h.renderer.Posts(ctx, nil, posts)
		if err != nil {
			return err
		}
		result.Posts = rendered
	}
	return c.JSON(http.StatusOK, result)
}
