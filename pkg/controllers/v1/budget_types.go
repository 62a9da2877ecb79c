package v1

import (
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/ledger"
	"github.com/rupify/backend/pkg/models"
)

type BudgetEditable struct {
	Amount types.Money `json:"amount" example:"1000.00"` // The monthly budget
}

type BudgetQueryFilter struct {
	Account string      `form:"account" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account to compute the expenses for
	Month   types.Month `form:"month" example:"2024-05"`                                // Month to compute the expenses for. Defaults to the current month.
}

// BudgetStatus is the budget of the user together with the expenses of
// an account in a month.
type BudgetStatus struct {
	Budget          *models.Budget `json:"budget"`                                                   // The budget. null if the user has not set a budget.
	AccountID       string         `json:"accountId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // ID of the account
	Month           string         `json:"month" example:"2024-05"`                                  // Month of the expenses
	CurrentExpenses types.Money    `json:"currentExpenses" example:"751.20"`                         // Sum of the expenses of the account in the month
}

func newBudgetStatus(status ledger.BudgetStatus) BudgetStatus {
	return BudgetStatus{
		Budget:          status.Budget,
		AccountID:       status.AccountID.String(),
		Month:           status.Month.String(),
		CurrentExpenses: status.CurrentExpenses,
	}
}

type BudgetResponse struct {
	Data  *models.Budget `json:"data,omitempty"`                                                 // Data for the budget
	Error *string        `json:"error,omitempty" example:"the budget must be greater than zero"` // The error, if any occurred
}

type BudgetStatusResponse struct {
	Data  *BudgetStatus `json:"data,omitempty"`                                                    // Budget status
	Error *string       `json:"error,omitempty" example:"the account query parameter must be set"` // The error, if any occurred
}
