package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/urls"
	"github.com/anonto42/yatube/validators"
)

// CommentHandler handles comment submission
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
	}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.POST("/:username/:post_id/comment/", h.AddComment, requireLogin)
}

// AddComment stores a comment by the requester. An invalid comment shows the
// post again with the form errors.
func (h *CommentHandler) AddComment(c echo.Context) error {
	post, err := middleware.LookupPost(c, h.postRepository)
	if err != nil {
		return err
	}

	var form models.CommentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Text = strings.TrimSpace(form.Text)
	if err := c.Validate(&form); err != nil {
		return renderPost(c, h.commentRepository, post, form, validators.FieldErrors(err))
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: middleware.CurrentUser(c).ID,
		Text:     form.Text,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, urls.Post(post.Author.Username, post.ID))
}
