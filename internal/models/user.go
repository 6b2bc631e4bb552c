package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a registered identity stored in MongoDB
type Account struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password"` // bcrypt hash
	FullName     string               `bson:"full_name"`
	AvatarURL    string               `bson:"avatar_url,omitempty"`
	CoverURL     string               `bson:"cover_url,omitempty"`
	Bio          string               `bson:"bio,omitempty"`
	Role         Role                 `bson:"role"`
	Github       string               `bson:"github,omitempty"`
	Facebook     string               `bson:"facebook,omitempty"`
	Linkedin     string               `bson:"linkedin,omitempty"`
	Followers    []primitive.ObjectID `bson:"followers"`
	Following    []primitive.ObjectID `bson:"following"`
	SavedPosts   []primitive.ObjectID `bson:"saved_posts"`
	BlockedUsers []primitive.ObjectID `bson:"blocked_users"`
	CreatedAt    time.Time            `bson:"created_at"`
}

// EnsureSets replaces nil identifier sets with empty ones so the stored
// document always holds arrays that $push/$pull can operate on.
func (a *Account) EnsureSets() {
	if a.Followers == nil {
		a.Followers = []primitive.ObjectID{}
	}
	if a.Following == nil {
		a.Following = []primitive.ObjectID{}
	}
	if a.SavedPosts == nil {
		a.SavedPosts = []primitive.ObjectID{}
	}
	if a.BlockedUsers == nil {
		a.BlockedUsers = []primitive.ObjectID{}
	}
}

// ProfileUpdate carries the profile fields a caller wants to change; nil means "leave as is".
type ProfileUpdate struct {
	FullName  *string
	Bio       *string
	AvatarURL *string
	CoverURL  *string
	Github    *string
	Facebook  *string
	Linkedin  *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Bio == nil && u.AvatarURL == nil && u.CoverURL == nil &&
		u.Github == nil && u.Facebook == nil && u.Linkedin == nil
}

// Fields returns the storage field names and values that the update sets.
func (u ProfileUpdate) Fields() map[string]string {
	fields := make(map[string]string)
	set := func(name string, v *string) {
		if v != nil {
			fields[name] = *v
		}
	}
	set("full_name", u.FullName)
	set("bio", u.Bio)
	set("avatar_url", u.AvatarURL)
	set("cover_url", u.CoverURL)
	set("github", u.Github)
	set("facebook", u.Facebook)
	set("linkedin", u.Linkedin)
	return fields
}

// Apply copies the provided fields onto a.
func (u ProfileUpdate) Apply(a *Account) {
	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&a.FullName, u.FullName)
	assign(&a.Bio, u.Bio)
	assign(&a.AvatarURL, u.AvatarURL)
	assign(&a.CoverURL, u.CoverURL)
	assign(&a.Github, u.Github)
	assign(&a.Facebook, u.Facebook)
	assign(&a.Linkedin, u.Linkedin)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"max=60"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateProfileRequest defines the request body for PUT /accounts/update
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=60"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=2048"`
	Cover    *string `json:"cover,omitempty" validate:"omitempty,max=2048"`
	Github   *string `json:"github,omitempty" validate:"omitempty,max=255"`
	Facebook *string `json:"facebook,omitempty" validate:"omitempty,max=255"`
	Linkedin *string `json:"linkedin,omitempty" validate:"omitempty,max=255"`
}

// ToUpdate maps the client field names onto stored profile fields.
func (r UpdateProfileRequest) ToUpdate() ProfileUpdate {
	return ProfileUpdate{
		FullName:  r.Name,
		Bio:       r.Bio,
		AvatarURL: r.Avatar,
		CoverURL:  r.Cover,
		Github:    r.Github,
		Facebook:  r.Facebook,
		Linkedin:  r.Linkedin,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}
