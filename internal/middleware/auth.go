package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/yatube/internal/auth"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/urls"
)

const (
	userKey = "user"
	postKey = "post"
)

// Identity reads the session cookie and stores the requesting user in the
// context. Requests without a valid session continue anonymously.
func Identity(sessions *auth.Sessions, users repositories.UserRepository, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := sessions.Parse(cookie.Value)
			if err != nil {
				c.SetCookie(sessions.ExpiredCookie())
				return next(c)
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.SetCookie(sessions.ExpiredCookie())
			case err != nil:
				logger.ErrorContext(c.Request().Context(), "load session user", "user_id", claims.UserID, "error", err)
			default:
				c.Set(userKey, user)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated requester or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}

// SetUser attaches user to the request context.
func SetUser(c echo.Context, user *models.User) {
	c.Set(userKey, user)
}

// RequireLogin redirects anonymous requests to the login page, remembering
// where they were going.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound, urls.LoginNext(c.Request().RequestURI))
			}
			return next(c)
		}
	}
}

// LookupPost resolves the :username/:post_id path pair. A post that exists
// under another author is reported as not found.
func LookupPost(c echo.Context, posts repositories.PostRepository) (*models.Post, error) {
	if post, ok := c.Get(postKey).(*models.Post); ok {
		return post, nil
	}

	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		return nil, echo.ErrNotFound
	}
	post, err := posts.GetAuthorPost(c.Request().Context(), c.Param("username"), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, echo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Set(postKey, post)
	return post, nil
}

// Owns reports whether user may change post.
func Owns(user *models.User, post *models.Post) bool {
	return user != nil && post != nil && user.ID == post.AuthorID
}

// PostOwner lets only the author through to edit and delete handlers;
// everyone else is sent back to the post. Must run after RequireLogin.
func PostOwner(posts repositories.PostRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			post, err := LookupPost(c, posts)
			if err != nil {
				return err
			}
			if !Owns(CurrentUser(c), post) {
				return c.Redirect(http.StatusFound, urls.Post(post.Author.Username, post.ID))
			}
			return next(c)
		}
	}
}
