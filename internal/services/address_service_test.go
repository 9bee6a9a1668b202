package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bistro/internal/models"
)

func defaults(list []models.UserAddress) []string {
	var out []string
	for _, a := range list {
		if a.IsDefault {
			out = append(out, a.Label)
		}
	}
	return out
}

func TestAddressBookKeepsSingleDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewAddressService(db)
	ann := createUser(t, db, "ann@example.com", models.RoleUser)

	list, err := svc.Add(ctx, ann, AddressInput{Label: "home", Street: "1 Main St", City: "Springfield"})
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, defaults(list))

	list, err = svc.Add(ctx, ann, AddressInput{Label: "work", Street: "2 Side St", City: "Springfield"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, []string{"home"}, defaults(list))

	list, err = svc.Add(ctx, ann, AddressInput{Label: "gym", Street: "3 Loop Rd", City: "Springfield", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"gym"}, defaults(list))

	work := list[1]
	list, err = svc.Update(ctx, ann, work.ID, AddressInput{Label: "office", Street: "2 Side St", City: "Shelbyville", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"office"}, defaults(list))

	list, err = svc.Delete(ctx, ann, work.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"home"}, defaults(list))
}

func TestAddressBookIsPrivate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewAddressService(db)
	ann := createUser(t, db, "ann@example.com", models.RoleUser)
	bob := createUser(t, db, "bob@example.com", models.RoleUser)

	list, err := svc.Add(ctx, ann, AddressInput{Street: "1 Main St", City: "Springfield"})
	require.NoError(t, err)

	_, err = svc.Delete(ctx, bob, list[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, ann, uuid.New(), AddressInput{Street: "x", City: "y"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Add(ctx, ann, AddressInput{City: "Springfield"})
	assert.ErrorIs(t, err, ErrValidation)

	bobs, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)
}
