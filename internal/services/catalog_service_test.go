package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bistro/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestAddReviewRecomputesRating(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewCatalogService(db)
	item := createMenuItem(t, db, "Margherita", 11, models.CategoryPizza)

	ratings := []int{5, 4, 2}
	for i, rating := range ratings {
		user := createUser(t, db, string(rune('a'+i))+"@example.com", models.RoleUser)
		_, err := svc.AddReview(ctx, user, item.ID, ReviewInput{Rating: rating, Comment: "ok"})
		require.NoError(t, err)
	}

	got, err := svc.GetMenuItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ReviewCount)
	assert.InDelta(t, 11.0/3.0, got.Rating, 1e-9)
	require.Len(t, got.Reviews, 3)
	require.NotNil(t, got.Reviews[0].User)
	assert.NotEmpty(t, got.Reviews[0].User.Name)
}

func TestAddReviewRejectsSecondReview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewCatalogService(db)
	item := createMenuItem(t, db, "Tiramisu", 6, models.CategoryDesserts)
	user := createUser(t, db, "ann@example.com", models.RoleUser)

	_, err := svc.AddReview(ctx, user, item.ID, ReviewInput{Rating: 5})
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, user, item.ID, ReviewInput{Rating: 1})
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.GetMenuItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ReviewCount)
	assert.Equal(t, 5.0, got.Rating)
}

func TestAddReviewValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewCatalogService(db)
	item := createMenuItem(t, db, "Fries", 3, models.CategorySides)
	user := createUser(t, db, "ann@example.com", models.RoleUser)

	_, err := svc.AddReview(ctx, user, uuid.New(), ReviewInput{Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddReview(ctx, user, item.ID, ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddReview(ctx, user, item.ID, ReviewInput{Rating: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListMenuFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewCatalogService(db)

	pepperoni := createMenuItem(t, db, "Pepperoni Pizza", 13, models.CategoryPizza)
	createMenuItem(t, db, "Veggie Pizza", 12, models.CategoryPizza)
	createMenuItem(t, db, "Lemonade", 3, models.CategoryBeverages)
	require.NoError(t, db.Model(&pepperoni).Update("is_featured", true).Error)

	items, total, err := svc.ListMenu(ctx, MenuFilter{Category: models.CategoryPizza})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, _, err = svc.ListMenu(ctx, MenuFilter{Search: "PEPPER"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, pepperoni.ID, items[0].ID)

	items, _, err = svc.ListMenu(ctx, MenuFilter{Category: models.CategoryPizza, Featured: true})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.ToggleAvailability(ctx, pepperoni.ID)
	require.NoError(t, err)
	items, _, err = svc.ListMenu(ctx, MenuFilter{Category: models.CategoryPizza, Available: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Veggie Pizza", items[0].Name)

	_, _, err = svc.ListMenu(ctx, MenuFilter{Category: "soups"})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestListMenuSearchTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewCatalogService(db)

	juice := createMenuItem(t, db, "100% Orange Juice", 4, models.CategoryBeverages)
	createMenuItem(t, db, "Lemonade", 3, models.CategoryBeverages)

	items, total, err := svc.ListMenu(ctx, MenuFilter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, juice.ID, items[0].ID)

	items, total, err = svc.ListMenu(ctx, MenuFilter{Search: "_"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, items)
}

func TestMenuItemCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewCatalogService(db)

	_, err := svc.CreateMenuItem(ctx, MenuItemInput{Name: ptr("Soup")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateMenuItem(ctx, MenuItemInput{Name: ptr("Soup"), Price: ptr(-1.0), Category: ptr(models.CategoryAppetizers)})
	assert.ErrorIs(t, err, ErrValidation)

	item, err := svc.CreateMenuItem(ctx, MenuItemInput{
		Name:        ptr("Minestrone"),
		Price:       ptr(7.5),
		Category:    ptr(models.CategoryAppetizers),
		Ingredients: []string{"beans", "pasta"},
	})
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)

	updated, err := svc.UpdateMenuItem(ctx, item.ID, MenuItemInput{Price: ptr(8.0), IsAvailable: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 8.0, updated.Price)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Minestrone", updated.Name)

	got, err := svc.GetMenuItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"beans", "pasta"}, []string(got.Ingredients))
	assert.False(t, got.IsAvailable)

	user := createUser(t, db, "ann@example.com", models.RoleUser)
	_, err = svc.AddReview(ctx, user, item.ID, ReviewInput{Rating: 3})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMenuItem(ctx, item.ID))
	_, err = svc.GetMenuItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var reviews int64
	require.NoError(t, db.Model(&models.Review{}).Count(&reviews).Error)
	assert.Zero(t, reviews)

	assert.ErrorIs(t, svc.DeleteMenuItem(ctx, item.ID), ErrNotFound)
}
