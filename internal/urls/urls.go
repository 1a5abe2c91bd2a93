// Package urls builds the application's paths so handlers, guards and
// templates agree on them.
package urls

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	Index       = "/"
	NewPost     = "/new/"
	FollowIndex = "/follow/"
	Login       = "/auth/login/"
	Signup      = "/auth/signup/"
	Logout      = "/auth/logout/"
	Firebase    = "/auth/firebase/"
	AboutAuthor = "/about/author/"
	AboutTech   = "/about/tech/"
)

func Group(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}

func Profile(username string) string {
	return "/" + url.PathEscape(username) + "/"
}

func Post(username string, id uint) string {
	return fmt.Sprintf("/%s/%d/", url.PathEscape(username), id)
}

func PostEdit(username string, id uint) string {
	return Post(username, id) + "edit/"
}

func PostDelete(username string, id uint) string {
	return Post(username, id) + "delete/"
}

func Comment(username string, id uint) string {
	return Post(username, id) + "comment/"
}

func Follow(username string) string {
	return Profile(username) + "follow/"
}

func Unfollow(username string) string {
	return Profile(username) + "unfollow/"
}

// Page appends a page query to path.
func Page(path string, n int) string {
	return fmt.Sprintf("%s?page=%d", path, n)
}

// LoginNext is the login URL that returns to next afterwards, e.g.
// /auth/login/?next=/new/.
func LoginNext(next string) string {
	if next == "" {
		return Login
	}
	return Login + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext reports whether next is a local path we can redirect to.
func SafeNext(next string) bool {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return false
	}
	u, err := url.Parse(next)
	return err == nil && u.Scheme == "" && u.Host == "" && !strings.Contains(next, "\\")
}
