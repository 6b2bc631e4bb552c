package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs bearer tokens for accounts.
type TokenIssuer interface {
	Issue(account primitive.ObjectID) (string, error)
}

// IDTokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	accounts     repositories.AccountRepository
	tokens       TokenIssuer
	firebaseAuth IDTokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, which
// disables Firebase login.
func NewAuthHandler(accounts repositories.AccountRepository, tokens TokenIssuer, firebaseAuth IDTokenVerifier) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, firebaseAuth: firebaseAuth}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/firebase-login", h.FirebaseLogin)
	g.GET("/me", h.Me, requireAuth)
	g.PUT("/change-password", h.ChangePassword, requireAuth)
}

type authResponse struct {
	Token string            `json:"token"`
	User  views.SelfProfile `json:"user"`
}

// Register creates a local account and signs the caller in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	email := normalizeEmail(req.Email)
	username := strings.TrimSpace(req.Username)

	_, err := h.accounts.FindByEmailOrUsername(ctx, email, username)
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.FullName)
	account := &models.Account{
		Username:  username,
		Email:     email,
		Password:  string(hash),
		FullName:  name,
		AvatarURL: defaultAvatar(name, username),
	}
	if err := h.accounts.Create(ctx, account); err != nil {
		return storeError(err, msgUserNotFound)
	}
	return h.respondWithToken(c, account)
}

// Login exchanges email and password for a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidPayload)
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid Credentials")
	}

	account, err := h.accounts.GetByEmail(c.Request().Context(), normalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid Credentials")
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid Credentials")
	}
	return h.respondWithToken(c, account)
}

// FirebaseLogin verifies a Firebase ID token (Google sign-in included) and
// signs in the account with the token's email, creating it on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}
	email, _ := token.Claims["email"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token carries no email address")
	}

	account, err := h.accounts.GetByEmail(ctx, email)
	if err == nil {
		return h.respondWithToken(c, account)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	account, err = h.createFederated(ctx, email, token)
	if err != nil {
		return err
	}
	log := logger.WithComponent("auth")
	log.Info().
		Str("account_id", account.ID.Hex()).
		Str("firebase_uid", token.UID).
		Msg("created account from firebase login")
	return h.respondWithToken(c, account)
}

func (h *AuthHandler) createFederated(ctx context.Context, email string, token *auth.Token) (*models.Account, error) {
	// the account can only sign in through the provider
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	handle := handleFromEmail(email)
	if picture == "" {
		picture = defaultAvatar(name, handle)
	}

	account := &models.Account{
		Username:  handle,
		Email:     email,
		Password:  string(hash),
		FullName:  name,
		AvatarURL: picture,
	}
	if err := h.accounts.Create(ctx, account); err != nil {
		return nil, storeError(err, msgUserNotFound)
	}
	return account, nil
}

// Me returns the caller's own profile.
func (h *AuthHandler) Me(c echo.Context) error {
	account, err := currentAccount(c, h.accounts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views.Self(account))
}

// ChangePassword replaces the caller's password after checking the current one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req models.ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	account, err := currentAccount(c, h.accounts)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.CurrentPassword)) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.accounts.UpdatePassword(c.Request().Context(), account.ID, string(hash)); err != nil {
		return storeError(err, msgUserNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

func (h *AuthHandler) respondWithToken(c echo.Context, account *models.Account) error {
	token, err := h.tokens.Issue(account.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: views.Self(account)})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func defaultAvatar(name, username string) string {
	label := name
	if label == "" {
		label = username
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(label) + "&background=random"
}

var handleUnsafe = regexp.MustCompile(`[^a-z0-9_.]+`)

// handleFromEmail derives a handle from the email's local part plus a random
// suffix, e.g. "jane.doe_3f9a1c".
func handleFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = handleUnsafe.ReplaceAllString(strings.ToLower(local), "")
	if len(local) > 20 {
		local = local[:20]
	}
	if local == "" {
		local = "user"
	}
	return fmt.Sprintf("%s_%s", local, strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
