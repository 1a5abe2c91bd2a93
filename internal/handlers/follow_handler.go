package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/urls"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/:username/follow/", h.FollowUser, requireLogin)
	e.GET("/:username/unfollow/", h.UnfollowUser, requireLogin)
}

// FollowUser subscribes the requester to an author. Following yourself or
// following twice changes nothing.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOr(err)
	}

	user := middleware.CurrentUser(c)
	if user.ID != author.ID {
		if err := h.followRepository.CreateFollow(ctx, user.ID, author.ID); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusFound, urls.Profile(author.Username))
}

// UnfollowUser removes the subscription; a missing one is not found.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOr(err)
	}

	err = h.followRepository.DeleteFollow(ctx, middleware.CurrentUser(c).ID, author.ID)
	if errors.Is(err, repositories.ErrFollowNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, urls.Profile(author.Username))
}
