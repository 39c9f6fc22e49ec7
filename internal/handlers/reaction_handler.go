package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skillshare-hub/backend/internal/models"
	"github.com/skillshare-hub/backend/internal/services"
)

// ReactionHandler handles reaction-related HTTP requests
type ReactionHandler struct {
	engagement services.EngagementService
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(engagement services.EngagementService) *ReactionHandler {
	return &ReactionHandler{engagement: engagement}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/reactions", h.React)
	g.DELETE("/posts/:post_id/reactions", h.Unreact)
	g.GET("/posts/:post_id/reactions", h.GetReactionCounts)
}

// React places or replaces the caller's reaction on a post
func (h *ReactionHandler) React(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.ReactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.engagement.React(c.Request().Context(), currentUserID, postID, req.Type)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}

// Unreact removes the caller's reaction from a post
func (h *ReactionHandler) Unreact(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	counts, err := h.engagement.Unreact(c.Request().Context(), currentUserID, postID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"counts": counts}})
}

// GetReactionCounts returns the per-type reaction breakdown for a post
func (h *ReactionHandler) GetReactionCounts(c echo.Context) error {
	postID := c.Param("post_id")

	counts, err := h.engagement.ReactionCounts(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"counts": counts}})
}
