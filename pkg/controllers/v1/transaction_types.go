package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/recurrence"
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/ledger"
	"github.com/rupify/backend/pkg/models"
)

type TransactionEditable struct {
	AccountID         uuid.UUID                `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`   // ID of the account the transaction is booked on
	Type              models.TransactionType   `json:"type" example:"EXPENSE"`                                     // INCOME or EXPENSE
	Amount            types.Money              `json:"amount" example:"120.50"`                                    // The amount, always positive
	Date              time.Time                `json:"date" example:"2024-01-15T00:00:00Z"`                        // Date of the transaction. Defaults to today.
	Description       string                   `json:"description" example:"Groceries"`                            // A description of the transaction
	Category          string                   `json:"category" example:"food"`                                    // Category of the transaction
	ReceiptURL        string                   `json:"receiptUrl" example:"https://example.com/receipts/1234.jpg"` // Link to an image of the receipt
	Status            models.TransactionStatus `json:"status" example:"COMPLETED" default:"COMPLETED"`             // PENDING, COMPLETED or FAILED
	IsRecurring       bool                     `json:"isRecurring" example:"false" default:"false"`                // Does the transaction recur?
	RecurringInterval *recurrence.Interval     `json:"recurringInterval" example:"MONTHLY"`                        // Interval of the recurrence. Required for recurring transactions.
}

func (editable TransactionEditable) create() (ledger.TransactionCreate, error) {
	create := ledger.TransactionCreate{
		AccountID:   editable.AccountID,
		Type:        editable.Type,
		Amount:      editable.Amount,
		Date:        editable.Date,
		Description: editable.Description,
		Category:    editable.Category,
		ReceiptURL:  editable.ReceiptURL,
		Status:      editable.Status,
	}

	if editable.IsRecurring {
		if editable.RecurringInterval == nil {
			return ledger.TransactionCreate{}, errIntervalNotSet
		}
		create.RecurringInterval = editable.RecurringInterval
	}

	return create, nil
}

type TransactionResponse struct {
	Data  *models.Transaction `json:"data,omitempty"`                                                 // Data for the transaction
	Error *string             `json:"error,omitempty" example:"the amount must be greater than zero"` // The error, if any occurred
}

// TransactionDelete is the body of a request deleting transactions.
type TransactionDelete struct {
	IDs []uuid.UUID `json:"ids" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // IDs of the transactions to delete
}
