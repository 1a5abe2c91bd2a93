package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/yatube/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	UseMinCost()
}

func TestSessions_IssueAndParse(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)

	token, err := s.Issue(&models.User{ID: 7, Username: "leo"})
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "leo", claims.Username)
	assert.Equal(t, "7", claims.Subject)
}

func TestSessions_ParseRejects(t *testing.T) {
	s := NewSessions("secret", time.Hour, false)
	token, err := s.Issue(&models.User{ID: 1, Username: "leo"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewSessions("other", time.Hour, false).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewSessions("secret", time.Hour, false)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("no user", func(t *testing.T) {
		anon, err := s.Issue(&models.User{})
		require.NoError(t, err)
		_, err = s.Parse(anon)
		assert.ErrorIs(t, err, ErrInvalidSession)
	})
}

func TestSessions_Cookies(t *testing.T) {
	s := NewSessions("secret", 2*time.Hour, true)

	c := s.Cookie("tok")
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, 7200, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	gone := s.ExpiredCookie()
	assert.Equal(t, CookieName, gone.Name)
	assert.Empty(t, gone.Value)
	assert.Negative(t, gone.MaxAge)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), ErrBadCredentials)
	assert.ErrorIs(t, CheckPassword("", "anything"), ErrBadCredentials)
}
