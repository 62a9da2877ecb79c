package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/recurrence"
	"github.com/rupify/backend/internal/types"
	"gorm.io/gorm"
)

var ErrRecurrenceIncomplete = errors.New("recurring transactions need both a recurring interval and a next recurring date")

// TransactionType is the direction of a transaction from the account's view.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// TransactionStatus is the processing state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusFailed
}

// Transaction is an income or expense booked against one account.
type Transaction struct {
	DefaultModel
	UserID            uuid.UUID            `json:"userId" gorm:"type:uuid;index;not null"`
	AccountID         uuid.UUID            `json:"accountId" gorm:"type:uuid;index;not null" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Account           Account              `json:"-"`
	Type              TransactionType      `json:"type" example:"EXPENSE"`
	Amount            types.Money          `json:"amount" example:"120.50"`
	Date              time.Time            `json:"date" gorm:"index" example:"2024-01-15T00:00:00Z"` // Always 00:00 UTC
	Description       string               `json:"description" example:"Groceries"`
	Category          string               `json:"category" example:"food"`
	ReceiptURL        *string              `json:"receiptUrl,omitempty" example:"https://example.com/receipts/1234.jpg"`
	Status            TransactionStatus    `json:"status" example:"COMPLETED"`
	IsRecurring       bool                 `json:"isRecurring" example:"false"`
	RecurringInterval *recurrence.Interval `json:"recurringInterval,omitempty" example:"MONTHLY"`
	NextRecurringDate *time.Time           `json:"nextRecurringDate,omitempty" example:"2024-02-15T00:00:00Z"`
}

// AfterFind enforces UTC for the dates.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	err = t.DefaultModel.AfterFind(tx)
	if err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	if t.NextRecurringDate != nil {
		next := t.NextRecurringDate.In(time.UTC)
		t.NextRecurringDate = &next
	}
	return
}

// BeforeSave
//   - trims whitespace from string fields
//   - defaults the status to COMPLETED
//   - normalizes Date to 00:00 UTC of its calendar date
//   - ensures recurrence fields are set if and only if the transaction is recurring
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)

	if t.ReceiptURL != nil {
		receipt := strings.TrimSpace(*t.ReceiptURL)
		t.ReceiptURL = &receipt
		if receipt == "" {
			t.ReceiptURL = nil
		}
	}

	if t.Status == "" {
		t.Status = StatusCompleted
	}

	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	t.Date = recurrence.Normalize(t.Date)

	if !t.IsRecurring {
		t.RecurringInterval = nil
		t.NextRecurringDate = nil
		return nil
	}

	if t.RecurringInterval == nil || !t.RecurringInterval.Valid() || t.NextRecurringDate == nil {
		return ErrRecurrenceIncomplete
	}

	next := recurrence.Normalize(*t.NextRecurringDate)
	t.NextRecurringDate = &next
	return nil
}
