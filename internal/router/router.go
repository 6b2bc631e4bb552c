package router

import (
	"strconv"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/notify"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/validators"
	"github.com/anonto42/nano-social/backend/internal/views"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	Issue(account primitive.ObjectID) (string, error)
	Parse(token string) (primitive.ObjectID, error)
}

// Dependencies is everything the HTTP surface needs.
type Dependencies struct {
	Accounts      repositories.AccountRepository
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Messages      repositories.MessageRepository
	Notifications repositories.NotificationRepository
	Media         repositories.MediaRepository

	Tokens       Tokens
	TokenHeader  string
	FirebaseAuth handlers.IDTokenVerifier // nil disables firebase login
	Store        media.Store

	// Notifier defaults to a notify.Service over Notifications.
	Notifier notify.Notifier

	MaxUploadBytes int64
	// UploadDir is served under PublicUploadPath when set.
	UploadDir        string
	PublicUploadPath string

	Logger *zerolog.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := logger.WithComponent("router")
	if deps.Logger != nil {
		log = *deps.Logger
	}

	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(log)

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NewService(deps.Notifications)
	}
	renderer := views.NewRenderer(deps.Accounts, deps.Posts, deps.Comments)
	requireAuth := middleware.RequireAuth(deps.Tokens, deps.TokenHeader)
	optionalAuth := middleware.OptionalAuth(deps.Tokens, deps.TokenHeader)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	if deps.UploadDir != "" && deps.PublicUploadPath != "" {
		e.Static(deps.PublicUploadPath, deps.UploadDir)
	}

	api := e.Group("/api", views.LoaderMiddleware(deps.Accounts))

	// Account routes
	accountGroup := api.Group("/accounts")
	handlers.NewAuthHandler(deps.Accounts, deps.Tokens, deps.FirebaseAuth).
		RegisterAuthRoutes(accountGroup, requireAuth)
	handlers.NewAccountHandler(deps.Accounts, deps.Posts, notifier, renderer).
		RegisterAccountRoutes(accountGroup, requireAuth)

	// Post and comment routes
	postGroup := api.Group("/posts")
	handlers.NewPostHandler(deps.Posts, deps.Comments, deps.Accounts, deps.Notifications, notifier, renderer).
		RegisterPostRoutes(postGroup, requireAuth, optionalAuth)
	handlers.NewCommentHandler(deps.Comments, deps.Posts, notifier, renderer).
		RegisterCommentRoutes(postGroup, requireAuth)

	handlers.NewMessageHandler(deps.Messages, deps.Accounts, renderer).
		RegisterMessageRoutes(api.Group("/messages", requireAuth))

	handlers.NewNotificationHandler(deps.Notifications, renderer).
		RegisterNotificationRoutes(api.Group("/notifications", requireAuth))

	uploadGroup := api.Group("/uploads", requireAuth, echomw.BodyLimit(bodyLimit(deps.MaxUploadBytes)))
	handlers.NewUploadHandler(deps.Store, deps.Media, deps.Accounts, deps.MaxUploadBytes).
		RegisterUploadRoutes(uploadGroup)

	handlers.NewSearchHandler(deps.Accounts, deps.Posts, renderer).
		RegisterSearchRoutes(api.Group("/search"))

	log.Debug().Int("routes", len(e.Routes())).Msg("routes configured")
}

// bodyLimit leaves headroom for the multipart envelope around the file.
func bodyLimit(maxFile int64) string {
	const envelope = 64 << 10
	if maxFile <= 0 {
		maxFile = 5 << 20
	}
	return formatBytes(maxFile + envelope)
}

func formatBytes(n int64) string {
	return strconv.FormatInt(n/1024+1, 10) + "K"
}
