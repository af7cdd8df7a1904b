package repositories

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category lookups, scoped to an
// owner.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByName(ctx context.Context, ownerID uint, name, kind string) (*models.Category, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByName(ctx context.Context, ownerID uint, name, kind string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ? AND kind = ?", ownerID, name, kind).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *categoryRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("kind, name").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
