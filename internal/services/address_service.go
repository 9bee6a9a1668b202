package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/validation"
)

// AddressService maintains a user's address book. Exactly one address is the
// default whenever the book is non-empty.
type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

type AddressInput struct {
	Label     string `json:"label" validate:"max=50"`
	Street    string `json:"street" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"max=100"`
	ZipCode   string `json:"zip_code" validate:"max=20"`
	IsDefault bool   `json:"is_default"`
}

func (s *AddressService) List(ctx context.Context, p *Principal) ([]models.UserAddress, error) {
	return listAddresses(s.db.WithContext(ctx), p.ID())
}

// Add appends an address and returns the whole book.
func (s *AddressService) Add(ctx context.Context, p *Principal, in AddressInput) ([]models.UserAddress, error) {
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	var out []models.UserAddress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.UserAddress{}).Where("user_id = ?", p.ID()).Count(&count).Error; err != nil {
			return err
		}

		addr := models.UserAddress{UserID: p.ID()}
		applyAddressInput(&addr, in)
		addr.IsDefault = in.IsDefault || count == 0

		if addr.IsDefault {
			if err := clearDefault(tx, p.ID()); err != nil {
				return err
			}
		}
		if err := tx.Create(&addr).Error; err != nil {
			return err
		}

		var err error
		out, err = listAddresses(tx, p.ID())
		return err
	})
	return out, err
}

// Update rewrites one of the principal's addresses and returns the whole book.
func (s *AddressService) Update(ctx context.Context, p *Principal, id uuid.UUID, in AddressInput) ([]models.UserAddress, error) {
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	var out []models.UserAddress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		addr, err := findAddress(tx, p.ID(), id)
		if err != nil {
			return err
		}

		wasDefault := addr.IsDefault
		applyAddressInput(addr, in)
		// The default can only move by marking another address; unmarking
		// the current one is ignored.
		addr.IsDefault = wasDefault || in.IsDefault

		if addr.IsDefault && !wasDefault {
			if err := clearDefault(tx, p.ID()); err != nil {
				return err
			}
		}
		if err := tx.Save(addr).Error; err != nil {
			return err
		}

		out, err = listAddresses(tx, p.ID())
		return err
	})
	return out, err
}

// Delete removes an address, promoting the oldest remaining one to default
// when needed, and returns the whole book.
func (s *AddressService) Delete(ctx context.Context, p *Principal, id uuid.UUID) ([]models.UserAddress, error) {
	var out []models.UserAddress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		addr, err := findAddress(tx, p.ID(), id)
		if err != nil {
			return err
		}
		if err := tx.Delete(addr).Error; err != nil {
			return err
		}

		out, err = listAddresses(tx, p.ID())
		if err != nil {
			return err
		}
		if addr.IsDefault && len(out) > 0 {
			out[0].IsDefault = true
			return tx.Model(&out[0]).Update("is_default", true).Error
		}
		return nil
	})
	return out, err
}

func findAddress(tx *gorm.DB, userID, id uuid.UUID) (*models.UserAddress, error) {
	var addr models.UserAddress
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("address")
		}
		return nil, err
	}
	return &addr, nil
}

func listAddresses(tx *gorm.DB, userID uuid.UUID) ([]models.UserAddress, error) {
	out := make([]models.UserAddress, 0)
	err := orderAddresses(tx.Where("user_id = ?", userID)).Find(&out).Error
	return out, err
}

func clearDefault(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Model(&models.UserAddress{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func applyAddressInput(addr *models.UserAddress, in AddressInput) {
	addr.Label = strings.TrimSpace(in.Label)
	addr.Street = strings.TrimSpace(in.Street)
	addr.City = strings.TrimSpace(in.City)
	addr.State = strings.TrimSpace(in.State)
	addr.ZipCode = strings.TrimSpace(in.ZipCode)
}
