package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/httputil"
	"github.com/rupify/backend/pkg/ledger"
	"github.com/rupify/backend/pkg/models"
)

type AccountEditable struct {
	Name      string             `json:"name" example:"Salary account"`             // Name of the account
	Type      models.AccountType `json:"type" example:"CURRENT" default:"CURRENT"`  // CURRENT or SAVINGS
	Balance   types.Money        `json:"balance" example:"1500.00" default:"0"`     // Balance of the account before any transactions were recorded
	IsDefault bool               `json:"isDefault" example:"false" default:"false"` // Make this the default account. The first account of a user always is.
}

func (editable AccountEditable) create() ledger.AccountCreate {
	return ledger.AccountCreate{
		Name:      editable.Name,
		Type:      editable.Type,
		Balance:   editable.Balance,
		IsDefault: editable.IsDefault,
	}
}

type AccountLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`            // The account itself
	Default string `json:"default" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2/default"` // Make the account the default account
	Budget  string `json:"budget" example:"https://example.com/api/v1/budget?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`    // Budget status for the account
}

// Account is the API v1 representation of an Account.
type Account struct {
	models.Account
	Links AccountLinks `json:"links"`
}

func newAccount(c *gin.Context, model models.Account) Account {
	url := httputil.RequestURL(c)

	return Account{
		Account: model,
		Links: AccountLinks{
			Self:    fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Default: fmt.Sprintf("%s/v1/accounts/%s/default", url, model.ID),
			Budget:  fmt.Sprintf("%s/v1/budget?account=%s", url, model.ID),
		},
	}
}

// AccountDetail is an account with its transactions.
type AccountDetail struct {
	Account
	Transactions     []models.Transaction `json:"transactions"`                 // Transactions of the account, newest first
	TransactionCount int                  `json:"transactionCount" example:"3"` // Number of transactions of the account
}

type AccountListResponse struct {
	Data  []Account `json:"data"`                                                            // List of accounts
	Error *string   `json:"error,omitempty" example:"the database is currently unavailable"` // The error, if any occurred
}

type AccountResponse struct {
	Data  *Account `json:"data,omitempty"`                                               // Data for the account
	Error *string  `json:"error,omitempty" example:"the account name must not be empty"` // The error, if any occurred for this account
}

type AccountDetailResponse struct {
	Data  *AccountDetail `json:"data,omitempty"`                                                          // Data for the account
	Error *string        `json:"error,omitempty" example:"There is no resource for the ID you specified"` // The error, if any occurred
}
