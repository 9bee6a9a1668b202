package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/utils"
	"github.com/example/bistro/internal/validation"
)

// CatalogService manages menu items and their reviews.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// MenuFilter narrows a menu listing. Every set field is ANDed.
type MenuFilter struct {
	Category  models.MenuCategory
	Search    string
	Featured  bool
	Available bool
	Limit     int
	Offset    int
}

// ListMenu returns one page of menu items and the total matching count.
func (s *CatalogService) ListMenu(ctx context.Context, f MenuFilter) ([]models.MenuItem, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.MenuItem{})

	if f.Category != "" {
		if !f.Category.Valid() {
			return nil, 0, badRequest("invalid category %q", f.Category)
		}
		query = query.Where("category = ?", f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q := utils.ContainsPattern(search)
		query = query.Where("LOWER(name) LIKE ? "+utils.LikeEscape+" OR LOWER(description) LIKE ? "+utils.LikeEscape, q, q)
	}
	if f.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if f.Available {
		query = query.Where("is_available = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.MenuItem, 0)
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}
	if err := query.Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetMenuItem loads an item with its reviews, newest first.
func (s *CatalogService) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Reviews.User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("menu item")
		}
		return nil, err
	}
	return &item, nil
}

// MenuItemInput carries the client-settable fields of a menu item. Nil
// fields are left untouched on update.
type MenuItemInput struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string              `json:"description" validate:"omitempty,max=1000"`
	Price       *float64             `json:"price" validate:"omitempty,gte=0"`
	Category    *models.MenuCategory `json:"category" validate:"omitempty,oneof=appetizers mains pizza pasta salads desserts beverages sides"`
	Image       *string              `json:"image" validate:"omitempty,max=500"`
	IsAvailable *bool                `json:"is_available"`
	IsFeatured  *bool                `json:"is_featured"`
	PrepTime    *int                 `json:"prep_time" validate:"omitempty,gte=0,lte=600"`
	Ingredients []string             `json:"ingredients" validate:"omitempty,dive,max=100"`
	Allergens   []string             `json:"allergens" validate:"omitempty,dive,max=100"`
}

// CreateMenuItem adds an item. Name, price and category are required; new
// items are available unless stated otherwise.
func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, newError(ErrValidation, "name is required")
	}
	if in.Price == nil {
		return nil, newError(ErrValidation, "price is required")
	}
	if in.Category == nil {
		return nil, newError(ErrValidation, "category is required")
	}
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	item := models.MenuItem{IsAvailable: true}
	applyMenuInput(&item, in)

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	slog.Info("menu item created", slog.String("menu_item_id", item.ID.String()), slog.String("name", item.Name))
	return &item, nil
}

// UpdateMenuItem applies the provided fields. Rating and review count are
// not settable here.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uuid.UUID, in MenuItemInput) (*models.MenuItem, error) {
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	db := s.db.WithContext(ctx)
	var item models.MenuItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("menu item")
		}
		return nil, err
	}

	applyMenuInput(&item, in)
	if strings.TrimSpace(item.Name) == "" {
		return nil, newError(ErrValidation, "name is required")
	}

	if err := db.Omit("Reviews").Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteMenuItem removes an item together with its reviews. Past orders keep
// their snapshots.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.MenuItem{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("menu item")
		}
		return nil
	})
}

// ToggleAvailability flips the availability flag and returns the item.
func (s *CatalogService) ToggleAvailability(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("menu item")
			}
			return err
		}
		item.IsAvailable = !item.IsAvailable
		return tx.Model(&item).Update("is_available", item.IsAvailable).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// AddReview records the principal's review and recomputes the item's rating
// as the mean of all its reviews. One review per user and item.
func (s *CatalogService) AddReview(ctx context.Context, p *Principal, menuItemID uuid.UUID, in ReviewInput) (*models.MenuItem, error) {
	if p == nil || p.User == nil {
		return nil, ErrUnauthenticated
	}
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.Select("id").First(&item, "id = ?", menuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("menu item")
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND menu_item_id = ?", p.ID(), menuItemID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return newError(ErrConflict, "you have already reviewed this item")
		}

		review := models.Review{
			UserID:     p.ID(),
			MenuItemID: menuItemID,
			Rating:     in.Rating,
			Comment:    strings.TrimSpace(in.Comment),
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return newError(ErrConflict, "you have already reviewed this item")
			}
			return err
		}

		return recomputeRating(tx, menuItemID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetMenuItem(ctx, menuItemID)
}

func recomputeRating(tx *gorm.DB, menuItemID uuid.UUID) error {
	var agg struct {
		Count int64
		Avg   float64
	}
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS avg").
		Where("menu_item_id = ?", menuItemID).
		Scan(&agg).Error; err != nil {
		return err
	}

	return tx.Model(&models.MenuItem{}).Where("id = ?", menuItemID).Updates(map[string]interface{}{
		"rating":       agg.Avg,
		"review_count": agg.Count,
	}).Error
}

func applyMenuInput(item *models.MenuItem, in MenuItemInput) {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Image != nil {
		item.Image = strings.TrimSpace(*in.Image)
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		item.IsFeatured = *in.IsFeatured
	}
	if in.PrepTime != nil {
		item.PrepTime = *in.PrepTime
	}
	if in.Ingredients != nil {
		item.Ingredients = models.StringList(in.Ingredients)
	}
	if in.Allergens != nil {
		item.Allergens = models.StringList(in.Allergens)
	}
}
