package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/pagination"
	"github.com/anonto42/yatube/internal/repositories"
)

// PostPage is one page of a post listing.
type PostPage = pagination.Page[models.Post]

func pageNumber(c echo.Context) int {
	return pagination.ParseNumber(c.QueryParam("page"))
}

func postPage(ctx context.Context, posts repositories.PostRepository, filter repositories.PostFilter, number int) (*PostPage, error) {
	return pagination.Paginate(ctx, number, pagination.DefaultPageSize,
		func(ctx context.Context) (int64, error) {
			return posts.CountPosts(ctx, filter)
		},
		func(ctx context.Context, offset, limit int) ([]models.Post, error) {
			return posts.FindPosts(ctx, filter, offset, limit)
		},
	)
}

// notFoundOr turns a missing record into a 404 and passes other errors on.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.ErrNotFound
	}
	return err
}

func render(c echo.Context, name string, data echo.Map) error {
	return c.Render(http.StatusOK, name, data)
}
