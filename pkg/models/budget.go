package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/types"
	"gorm.io/gorm"
)

// Budget is the monthly spending limit of a user.
//
// It is compared against the expenses of the user's default account only.
type Budget struct {
	DefaultModel
	UserID        uuid.UUID   `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	User          User        `json:"-"`
	Amount        types.Money `json:"amount" example:"1000.00"`
	LastAlertSent *time.Time  `json:"lastAlertSent" example:"2024-05-12T06:00:00Z"` // Only written by the budget alert pass
}

// AfterFind enforces UTC for LastAlertSent.
func (b *Budget) AfterFind(tx *gorm.DB) (err error) {
	err = b.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	if b.LastAlertSent != nil {
		sent := b.LastAlertSent.In(time.UTC)
		b.LastAlertSent = &sent
	}
	return nil
}
