package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is the owner of accounts and of at most one budget.
//
// Users are not created explicitly. The identity provider authenticates the
// caller and the user is created from the token's subject on first use.
type User struct {
	DefaultModel
	ExternalID string `json:"-" gorm:"uniqueIndex;not null"` // Subject issued by the identity provider
	Email      string `json:"email" example:"jane@example.com"`
	Name       string `json:"name" example:"Jane Doe"`
}

// BeforeSave trims whitespace from string fields.
func (u *User) BeforeSave(_ *gorm.DB) (err error) {
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	return nil
}
