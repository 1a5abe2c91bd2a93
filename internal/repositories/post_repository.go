package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/yatube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post listing. Zero fields are ignored.
type PostFilter struct {
	AuthorID   uint
	GroupID    uint
	FollowerID uint // only authors this user follows
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetAuthorPost(ctx context.Context, username string, id uint) (*models.Post, error)
	CountPosts(ctx context.Context, filter PostFilter) (int64, error)
	FindPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
}

// GormPostRepository implements PostRepository with GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *GormPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations(ctx).First(&post, id).Error; err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// GetAuthorPost finds post id only when it was written by username.
func (r *GormPostRepository) GetAuthorPost(ctx context.Context, username string, id uint) (*models.Post, error) {
	author := r.db.Model(&models.User{}).Select("id").Where("username = ?", username)

	var post models.Post
	err := r.withRelations(ctx).
		Where("posts.id = ? AND posts.author_id = (?)", id, author).
		First(&post).Error
	if err != nil {
		return nil, fmt.Errorf("get post %d of %s: %w", id, username, err)
	}
	return &post, nil
}

func (r *GormPostRepository) CountPosts(ctx context.Context, filter PostFilter) (int64, error) {
	var count int64
	if err := r.filtered(r.db.WithContext(ctx).Model(&models.Post{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// FindPosts returns one window of the listing, newest first.
func (r *GormPostRepository) FindPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.filtered(r.withRelations(ctx), filter).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return posts, nil
}

// UpdatePost writes the editable fields: text, group and image.
func (r *GormPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Model(post).Select("text", "group_id", "image").Updates(post).Error
	if err != nil {
		return fmt.Errorf("update post %d: %w", post.ID, err)
	}
	return nil
}

// DeletePost removes the post together with its comments.
func (r *GormPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments of post %d: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete post %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete post %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *GormPostRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Author").Preload("Group")
}

func (r *GormPostRepository) filtered(q *gorm.DB, f PostFilter) *gorm.DB {
	if f.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.GroupID != 0 {
		q = q.Where("posts.group_id = ?", f.GroupID)
	}
	if f.FollowerID != 0 {
		following := r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", f.FollowerID)
		q = q.Where("posts.author_id IN (?)", following)
	}
	return q
}
