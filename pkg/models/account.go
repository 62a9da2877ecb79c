package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/types"
	"gorm.io/gorm"
)

// AccountType distinguishes day-to-day accounts from savings.
type AccountType string

const (
	AccountCurrent AccountType = "CURRENT"
	AccountSavings AccountType = "SAVINGS"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	return t == AccountCurrent || t == AccountSavings
}

// Account represents an asset account, e.g. a bank account.
//
// Balance is maintained by the ledger service and never written directly.
// At most one account per user has IsDefault set.
type Account struct {
	DefaultModel
	UserID    uuid.UUID   `json:"userId" gorm:"type:uuid;index;not null" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	User      User        `json:"-"`
	Name      string      `json:"name" example:"Salary account"`
	Type      AccountType `json:"type" example:"CURRENT"`
	Balance   types.Money `json:"balance" example:"2735.17"`
	IsDefault bool        `json:"isDefault" example:"true"`
}

// BeforeSave trims whitespace from the name.
func (a *Account) BeforeSave(_ *gorm.DB) (err error) {
	a.Name = strings.TrimSpace(a.Name)
	return nil
}
