package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/yatube/internal/cache"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
)

// FeedHandler serves the post listings: the home page, group pages and the
// feed of followed authors.
type FeedHandler struct {
	postRepository  repositories.PostRepository
	groupRepository repositories.GroupRepository
	indexCache      *cache.PageCache[PostPage]
	indexTTL        time.Duration
	logger          *slog.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	indexCache *cache.PageCache[PostPage],
	indexTTL time.Duration,
	logger *slog.Logger,
) *FeedHandler {
	return &FeedHandler{
		postRepository:  postRepo,
		groupRepository: groupRepo,
		indexCache:      indexCache,
		indexTTL:        indexTTL,
		logger:          logger,
	}
}

// RegisterFeedRoutes registers the listing routes
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo, requireLogin echo.MiddlewareFunc) {
	e.GET("/", h.Index)
	e.GET("/group/:slug/", h.GroupPosts)
	e.GET("/follow/", h.FollowIndex, requireLogin)
}

// IndexCacheKey is the cache key of one home page.
func IndexCacheKey(number int) string {
	return cache.Key("posts", "index", fmt.Sprintf("page=%d", number))
}

// Index lists all posts. Each page is served from the cache for indexTTL;
// cache failures only cost a recomputation. Pages are stored under their
// clamped number only, so out-of-range requests never add entries.
func (h *FeedHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	number := pageNumber(c)
	key := IndexCacheKey(number)

	page, ok, err := h.indexCache.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "read page cache", "key", key, "error", err)
	}
	if !ok {
		page, err = postPage(ctx, h.postRepository, repositories.PostFilter{}, number)
		if err != nil {
			return err
		}
		key = IndexCacheKey(page.Number)
		if err := h.indexCache.Set(ctx, key, page, h.indexTTL); err != nil {
			h.logger.WarnContext(ctx, "write page cache", "key", key, "error", err)
		}
	}
	return render(c, "posts/index.html", echo.Map{"page": page})
}

// GroupPosts lists the posts published in one group.
func (h *FeedHandler) GroupPosts(c echo.Context) error {
	ctx := c.Request().Context()
	group, err := h.groupRepository.GetGroupBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}

	page, err := postPage(ctx, h.postRepository, repositories.PostFilter{GroupID: group.ID}, pageNumber(c))
	if err != nil {
		return err
	}
	return render(c, "posts/group.html", echo.Map{"group": group, "page": page})
}

// FollowIndex lists posts of the authors the requester follows.
func (h *FeedHandler) FollowIndex(c echo.Context) error {
	user := middleware.CurrentUser(c)
	filter := repositories.PostFilter{FollowerID: user.ID}

	page, err := postPage(c.Request().Context(), h.postRepository, filter, pageNumber(c))
	if err != nil {
		return err
	}
	return render(c, "posts/follow.html", echo.Map{"page": page})
}
