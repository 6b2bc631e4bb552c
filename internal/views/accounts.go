package views

import (
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountSummary is how an account appears inside other resources.
type AccountSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// UnknownAccount stands in for references to accounts that no longer exist.
var UnknownAccount = AccountSummary{ID: "unknown", Name: "Unknown", Username: "unknown", Avatar: ""}

// Summary maps a to its summary; nil yields UnknownAccount.
func Summary(a *models.Account) AccountSummary {
	if a == nil {
		return UnknownAccount
	}
	name := a.FullName
	if name == "" {
		name = a.Username
	}
	return AccountSummary{ID: a.ID.Hex(), Name: name, Username: a.Username, Avatar: a.AvatarURL}
}

// PublicProfile is what anyone may see about an account.
type PublicProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Cover     string    `json:"cover"`
	Bio       string    `json:"bio"`
	Github    string    `json:"github"`
	Facebook  string    `json:"facebook"`
	Linkedin  string    `json:"linkedin"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
}

// SelfProfile adds the fields only the owner sees.
type SelfProfile struct {
	PublicProfile
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	SavedPosts   []string    `json:"saved_posts"`
	BlockedUsers []string    `json:"blocked_users"`
}

func Public(a *models.Account) PublicProfile {
	return PublicProfile{
		ID:        a.ID.Hex(),
		Username:  a.Username,
		Name:      a.FullName,
		Avatar:    a.AvatarURL,
		Cover:     a.CoverURL,
		Bio:       a.Bio,
		Github:    a.Github,
		Facebook:  a.Facebook,
		Linkedin:  a.Linkedin,
		Followers: HexIDs(a.Followers),
		Following: HexIDs(a.Following),
		CreatedAt: a.CreatedAt,
	}
}

func Self(a *models.Account) SelfProfile {
	return SelfProfile{
		PublicProfile: Public(a),
		Email:         a.Email,
		Role:          a.Role,
		SavedPosts:    HexIDs(a.SavedPosts),
		BlockedUsers:  HexIDs(a.BlockedUsers),
	}
}

// HexIDs renders ids as hex strings; nil becomes an empty list.
func HexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
