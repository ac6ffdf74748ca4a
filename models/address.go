package models

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNoDefaultAddress is returned when a user has no active shipping address.
var ErrNoDefaultAddress = errors.New("no default address")

type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     string `gorm:"index;not null" json:"user_id"`
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	Active     bool   `gorm:"default:false" json:"active"`
}

// DefaultAddress returns the user's single active address.
func DefaultAddress(db *gorm.DB, userID string) (*Address, error) {
	var address Address
	err := db.Where("user_id = ? AND active = ?", userID, true).First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDefaultAddress
	}
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// SetDefaultAddress makes addressID the user's active address. The previously
// active address (if any) is flipped inactive in the same transaction so that
// at most one address per user is ever active in a committed state.
func SetDefaultAddress(db *gorm.DB, userID string, addressID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var target Address
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&target).Error; err != nil {
			return err
		}

		if err := tx.Model(&Address{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; err != nil {
			return err
		}

		return tx.Model(&target).Update("active", true).Error
	})
}
