//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/testhelpers"
)

func TestPostgresRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	dsn := testhelpers.StartPostgres(t)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	r := newReposFor(db)
	ctx := context.Background()
	leo, mia := r.user(t, "leo"), r.user(t, "mia")

	t.Run("duplicate username", func(t *testing.T) {
		err := r.users.CreateUser(ctx, &models.User{Username: "leo"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("follow is idempotent and self follow is rejected by the schema", func(t *testing.T) {
		require.NoError(t, r.follows.CreateFollow(ctx, leo.ID, mia.ID))
		require.NoError(t, r.follows.CreateFollow(ctx, leo.ID, mia.ID))
		n, err := r.follows.GetFollowingCount(ctx, leo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		err = db.Create(&models.Follow{FollowerID: mia.ID, FollowingID: mia.ID}).Error
		assert.Error(t, err)
	})

	t.Run("feed", func(t *testing.T) {
		r.post(t, mia, "from mia", time.Now())
		r.post(t, leo, "from leo", time.Now())
		feed, err := r.posts.FindPosts(ctx, PostFilter{FollowerID: leo.ID}, 0, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, "from mia", feed[0].Text)
	})

	t.Run("group upsert", func(t *testing.T) {
		require.NoError(t, r.groups.UpsertGroup(ctx, &models.Group{Title: "A", Slug: "a"}))
		require.NoError(t, r.groups.UpsertGroup(ctx, &models.Group{Title: "B", Slug: "a"}))
		g, err := r.groups.GetGroupBySlug(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "B", g.Title)
	})
}
