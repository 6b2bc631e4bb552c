package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/anonto42/nano-social/backend/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// UploadHandler stores images and keeps the media ledger.
type UploadHandler struct {
	store    media.Store
	ledger   repositories.MediaRepository
	accounts repositories.AccountRepository
	maxBytes int64
}

func NewUploadHandler(store media.Store, ledger repositories.MediaRepository, accounts repositories.AccountRepository, maxBytes int64) *UploadHandler {
	return &UploadHandler{store: store, ledger: ledger, accounts: accounts, maxBytes: maxBytes}
}

// RegisterUploadRoutes registers upload routes. All of them need an
// authenticated caller.
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/avatar", h.UploadAvatar)
	g.POST("/cover", h.UploadCover)
	g.POST("/post", h.UploadPostImage)
	g.GET("/collection", h.Collection)
}

// UploadAvatar stores the "avatar" file and makes it the caller's avatar.
func (h *UploadHandler) UploadAvatar(c echo.Context) error {
	obj, err := h.save(c, "avatar", models.MediaAvatar)
	if err != nil {
		return err
	}
	update := models.ProfileUpdate{AvatarURL: &obj.URL}
	if _, err := h.accounts.UpdateProfile(c.Request().Context(), currentAccountID(c), update); err != nil {
		return storeError(err, msgUserNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"avatar": obj.URL, "message": "Avatar uploaded successfully"})
}

// UploadCover stores the "cover" file and makes it the caller's cover image.
func (h *UploadHandler) UploadCover(c echo.Context) error {
	obj, err := h.save(c, "cover", models.MediaCover)
	if err != nil {
		return err
	}
	update := models.ProfileUpdate{CoverURL: &obj.URL}
	if _, err := h.accounts.UpdateProfile(c.Request().Context(), currentAccountID(c), update); err != nil {
		return storeError(err, msgUserNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"cover": obj.URL, "message": "Cover uploaded successfully"})
}

// UploadPostImage stores the "image" file for use in a post.
func (h *UploadHandler) UploadPostImage(c echo.Context) error {
	obj, err := h.save(c, "image", models.MediaPost)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": obj.URL, "message": "Image uploaded successfully"})
}

// Collection lists the URLs of the caller's uploads, newest first.
func (h *UploadHandler) Collection(c echo.Context) error {
	assets, err := h.ledger.ListByOwner(c.Request().Context(), currentAccountID(c).Hex())
	if err != nil {
		return err
	}
	urls := make([]string, len(assets))
	for i := range assets {
		urls[i] = assets[i].URL
	}
	return c.JSON(http.StatusOK, urls)
}

func (h *UploadHandler) save(c echo.Context, field string, kind models.MediaKind) (media.Object, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return media.Object{}, echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	contentType := header.Header.Get(echo.HeaderContentType)
	if err := media.ValidateImage(header.Filename, contentType, header.Size, h.maxBytes); err != nil {
		return media.Object{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	src, err := header.Open()
	if err != nil {
		return media.Object{}, err
	}
	defer src.Close()

	ctx := c.Request().Context()
	owner := currentAccountID(c).Hex()
	obj, err := h.store.Save(ctx, owner, media.NewFilename(filepath.Ext(header.Filename)), contentType, src)
	if errors.Is(err, media.ErrUnsupportedType) || errors.Is(err, media.ErrTooLarge) {
		return media.Object{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return media.Object{}, err
	}
	metrics.UploadsTotal.WithLabelValues(string(kind)).Inc()
	metrics.UploadBytes.Add(float64(obj.Size))

	asset := &models.MediaAsset{
		OwnerID:     owner,
		Kind:        kind,
		URL:         obj.URL,
		StorageKey:  obj.Key,
		ContentType: contentType,
		Size:        obj.Size,
	}
	if err := h.ledger.Create(ctx, asset); err != nil {
		log := logger.WithComponent("uploads")
		log.Warn().Err(err).
			Str("owner", owner).
			Str("key", obj.Key).
			Msg("failed to record upload in media ledger")
	}
	return obj, nil
}
