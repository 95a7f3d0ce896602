package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loomworks/backend/internal/domain/production"
	"github.com/loomworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRecipeRepository implements production.RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByProductID finds the recipe for a product. Each product carries at
// most one recipe, overwritten by the latest completed material selection.
func (r *GormRecipeRepository) FindByProductID(ctx context.Context, productID uuid.UUID) (*production.Recipe, error) {
	var recipe production.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Save persists a recipe
func (r *GormRecipeRepository) Save(ctx context.Context, recipe *production.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// Ensure GormRecipeRepository implements RecipeRepository
var _ production.RecipeRepository = (*GormRecipeRepository)(nil)
