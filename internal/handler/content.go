package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/booksphere/internal/content"
)

// ContentHandler serves CMS-managed content.  Every response is backed by
// the content cache and falls back to built-in data when the CMS is not
// reachable, so none of these endpoints fail on source errors.
type ContentHandler struct {
	Content *content.Service
}

func NewContentHandler(svc *content.Service) *ContentHandler {
	if svc == nil {
		panic("nil content service passed to NewContentHandler")
	}
	return &ContentHandler{Content: svc}
}

// ListEvents handles GET /v1/events?interests=a,b&location=x.
func (h *ContentHandler) ListEvents(c echo.Context) error {
	events := h.Content.Events(c.Request().Context())
	interests := content.SplitList(c.QueryParam("interests"))
	events = content.FilterEvents(events, interests, c.QueryParam("location"))
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// GetEvent handles GET /v1/events/:id.
func (h *ContentHandler) GetEvent(c echo.Context) error {
	ev, ok := h.Content.Event(c.Request().Context(), c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Event not found."})
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *ContentHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Content.GlobalConfig(c.Request().Context()))
}

func (h *ContentHandler) ListBanners(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"banners": h.Content.Banners(c.Request().Context())})
}

func (h *ContentHandler) ListTiers(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"tiers": h.Content.TierRules(c.Request().Context())})
}

func (h *ContentHandler) ListRecommendations(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"rules": h.Content.Recommendations(c.Request().Context())})
}

// RecommendedEvents handles GET /v1/recommendations/events?interests=a,b.
// No interests yields an empty list.
func (h *ContentHandler) RecommendedEvents(c echo.Context) error {
	ctx := c.Request().Context()
	interests := content.SplitList(c.QueryParam("interests"))
	events := content.Recommend(h.Content.Events(ctx), h.Content.Recommendations(ctx), interests)
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}
