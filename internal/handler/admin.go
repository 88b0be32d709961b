package handler

import (
	"context"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/content"
	"github.com/iliyamo/booksphere/internal/middleware"
)

// AdminHandler lets operators drop cached CMS content after publishing.
// PurgeResponses, when set, also clears the HTTP response cache.
type AdminHandler struct {
	Content        *content.Service
	PurgeResponses func(ctx context.Context) error
	Logger         *logrus.Logger
}

func NewAdminHandler(svc *content.Service, purgeResponses func(ctx context.Context) error, logger *logrus.Logger) *AdminHandler {
	if svc == nil {
		panic("nil content service passed to NewAdminHandler")
	}
	return &AdminHandler{Content: svc, PurgeResponses: purgeResponses, Logger: logger}
}

// InvalidateContent handles DELETE /v1/admin/content-cache/:type.
func (h *AdminHandler) InvalidateContent(c echo.Context) error {
	key := c.Param("type")
	if !slices.Contains(content.Keys, key) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown content type", "types": content.Keys})
	}
	ctx := c.Request().Context()
	if err := h.Content.Invalidate(ctx, key); err != nil {
		return h.fail(c, err, key)
	}
	if err := h.purgeResponses(ctx); err != nil {
		return h.fail(c, err, key)
	}
	h.log(c, key)
	return c.NoContent(http.StatusNoContent)
}

// PurgeContent handles DELETE /v1/admin/content-cache.
func (h *AdminHandler) PurgeContent(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Content.Purge(ctx); err != nil {
		return h.fail(c, err, "*")
	}
	if err := h.purgeResponses(ctx); err != nil {
		return h.fail(c, err, "*")
	}
	h.log(c, "*")
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) purgeResponses(ctx context.Context) error {
	if h.PurgeResponses == nil {
		return nil
	}
	return h.PurgeResponses(ctx)
}

func (h *AdminHandler) log(c echo.Context, key string) {
	if h.Logger == nil {
		return
	}
	h.Logger.WithFields(logrus.Fields{"subject": middleware.Subject(c), "type": key}).Info("content cache purged")
}

func (h *AdminHandler) fail(c echo.Context, err error, key string) error {
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("type", key).Error("content cache purge failed")
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cache purge failed"})
}
