package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
)

// UserHandler serves author profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, followRepo repositories.FollowRepository) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
	}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(e *echo.Echo) {
	e.GET("/:username/", h.Profile)
}

// Profile lists the posts of one author along with follow information.
func (h *UserHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOr(err)
	}

	page, err := postPage(ctx, h.postRepository, repositories.PostFilter{AuthorID: author.ID}, pageNumber(c))
	if err != nil {
		return err
	}

	following := false
	if viewer := middleware.CurrentUser(c); viewer != nil {
		if following, err = h.followRepository.IsFollowing(ctx, viewer.ID, author.ID); err != nil {
			return err
		}
	}
	followers, err := h.followRepository.GetFollowersCount(ctx, author.ID)
	if err != nil {
		return err
	}
	follows, err := h.followRepository.GetFollowingCount(ctx, author.ID)
	if err != nil {
		return err
	}

	return render(c, "posts/profile.html", echo.Map{
		"author":          author,
		"page":            page,
		"following":       following,
		"followers_count": followers,
		"following_count": follows,
		"posts_count":     page.TotalItems,
	})
}
