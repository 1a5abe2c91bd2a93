package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/urls"
	"github.com/anonto42/yatube/validators"
)

const (
	invalidGroupMessage = "Select a valid choice. That choice is not one of the available choices."
	invalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// PostHandler handles viewing, writing, editing and deleting posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	groupRepository   repositories.GroupRepository
	commentRepository repositories.CommentRepository
	mediaStore        media.Store
	logger            *slog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	mediaStore media.Store,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		mediaStore:        mediaStore,
		logger:            logger,
	}
}

// RegisterPostRoutes registers post routes. Edit and delete are guarded by
// requireLogin followed by postOwner.
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo, requireLogin, postOwner echo.MiddlewareFunc) {
	formMethods := []string{http.MethodGet, http.MethodPost}

	e.Match(formMethods, "/new/", h.NewPost, requireLogin)
	e.GET("/:username/:post_id/", h.GetPost)
	e.Match(formMethods, "/:username/:post_id/edit/", h.EditPost, requireLogin, postOwner)
	e.Match(formMethods, "/:username/:post_id/delete/", h.DeletePost, requireLogin, postOwner)
}

// GetPost shows a post with its comments and an empty comment form.
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := middleware.LookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	return renderPost(c, h.commentRepository, post, models.CommentForm{}, nil)
}

// renderPost renders the single post page. The comment handler reuses it to
// show comment form errors.
func renderPost(c echo.Context, comments repositories.CommentRepository, post *models.Post, form models.CommentForm, errs map[string]string) error {
	ctx := c.Request().Context()
	list, err := comments.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return err
	}
	return render(c, "posts/post.html", echo.Map{
		"author":         &post.Author,
		"post":           post,
		"comments":       list,
		"comments_count": int64(len(list)),
		"form":           form,
		"errors":         errs,
	})
}

// NewPost shows the post form and publishes a valid submission.
func (h *PostHandler) NewPost(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if c.Request().Method == http.MethodGet {
		return h.renderForm(c, models.PostForm{}, nil, nil)
	}

	ctx := c.Request().Context()
	var form models.PostForm
	post := &models.Post{AuthorID: user.ID}
	errs, uploaded, err := h.applyForm(c, &form, post)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return h.renderForm(c, form, errs, nil)
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		h.discardImage(ctx, uploaded)
		return err
	}
	h.logger.InfoContext(ctx, "post created", "post_id", post.ID, "author", user.Username)
	return c.Redirect(http.StatusFound, urls.Index)
}

// EditPost lets the author change text, group and image of a post.
func (h *PostHandler) EditPost(c echo.Context) error {
	post, err := middleware.LookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	if c.Request().Method == http.MethodGet {
		form := models.PostForm{Text: post.Text}
		if post.GroupID != nil {
			form.Group = strconv.FormatUint(uint64(*post.GroupID), 10)
		}
		return h.renderForm(c, form, nil, post)
	}

	ctx := c.Request().Context()
	previous := post.Image
	var form models.PostForm
	errs, uploaded, err := h.applyForm(c, &form, post)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return h.renderForm(c, form, errs, post)
	}

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		h.discardImage(ctx, uploaded)
		return err
	}
	if previous != post.Image {
		h.discardImage(ctx, previous)
	}
	return c.Redirect(http.StatusFound, urls.Post(post.Author.Username, post.ID))
}

// DeletePost removes a post and returns the author to their profile.
func (h *PostHandler) DeletePost(c echo.Context) error {
	post, err := middleware.LookupPost(c, h.postRepository)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.postRepository.DeletePost(ctx, post.ID); err != nil {
		return notFoundOr(err)
	}
	h.discardImage(ctx, post.Image)
	h.logger.InfoContext(ctx, "post deleted", "post_id", post.ID)
	return c.Redirect(http.StatusFound, urls.Profile(middleware.CurrentUser(c).Username))
}

func (h *PostHandler) renderForm(c echo.Context, form models.PostForm, errs map[string]string, post *models.Post) error {
	groups, err := h.groupRepository.ListGroups(c.Request().Context())
	if err != nil {
		return err
	}
	data := echo.Map{
		"form":    form,
		"errors":  errs,
		"groups":  groups,
		"is_edit": post != nil,
	}
	if post != nil {
		data["post"] = post
	}
	return render(c, "posts/new_post.html", data)
}

// discardImage removes a stored image that no post refers to any more.
func (h *PostHandler) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.mediaStore.Delete(ctx, key); err != nil {
		h.logger.WarnContext(ctx, "delete orphaned image", "key", key, "error", err)
	}
}

// applyForm binds and validates the submitted form and copies it onto post.
// Field errors are returned as a map; the error result is for failures the
// user cannot fix by editing the form. uploaded is the key of an image stored
// by this call, so the caller can remove it when saving the post fails.
func (h *PostHandler) applyForm(c echo.Context, form *models.PostForm, post *models.Post) (errs map[string]string, uploaded string, err error) {
	ctx := c.Request().Context()
	if err := c.Bind(form); err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Text = strings.TrimSpace(form.Text)

	errs = validators.FieldErrors(c.Validate(form))
	if errs == nil {
		errs = map[string]string{}
	}

	var groupID *uint
	if _, invalid := errs["group"]; form.Group != "" && !invalid {
		id, _ := strconv.ParseUint(form.Group, 10, 64)
		group, err := h.groupRepository.GetGroupByID(ctx, uint(id))
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			errs["group"] = invalidGroupMessage
		case err != nil:
			return nil, "", err
		default:
			groupID = &group.ID
		}
	}
	if len(errs) > 0 {
		return errs, "", nil
	}

	image := post.Image
	if form.ImageClear != "" {
		image = ""
	}
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	default:
		key, err := media.SaveImage(ctx, h.mediaStore, fh)
		if errors.Is(err, media.ErrInvalidImage) {
			errs["image"] = invalidImageMessage
			return errs, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		image, uploaded = key, key
	}

	post.Text = form.Text
	post.GroupID = groupID
	post.Image = image
	return nil, uploaded, nil
}
