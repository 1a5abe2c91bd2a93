package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/yatube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	UpsertGroup(ctx context.Context, group *models.Group) error
}

// GormGroupRepository implements GroupRepository with GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

func (r *GormGroupRepository) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, fmt.Errorf("get group %q: %w", slug, err)
	}
	return &group, nil
}

func (r *GormGroupRepository) GetGroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}
	return &group, nil
}

// ListGroups returns every group ordered by title, for the post form.
func (r *GormGroupRepository) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.WithContext(ctx).Order("title").Order("id").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// UpsertGroup inserts group or updates title and description of the group
// with the same slug.
func (r *GormGroupRepository) UpsertGroup(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
	}).Create(group).Error
	if err != nil {
		return fmt.Errorf("upsert group %q: %w", group.Slug, err)
	}
	return nil
}
