package v1_test

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/recurrence"
	"github.com/rupify/backend/internal/types"
	v1 "github.com/rupify/backend/pkg/controllers/v1"
	"github.com/rupify/backend/pkg/models"
	"github.com/rupify/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) createTestTransaction(subject string, transaction v1.TransactionEditable, expectedStatus ...int) models.Transaction {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.request(subject, http.MethodPost, "/v1/transactions", transaction)
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if r.Code == http.StatusCreated {
		return *response.Data
	}

	return models.Transaction{}
}

func (suite *TestSuiteStandard) TestTransactionsCreateAndDelete() {
	account := suite.createTestAccount("user_tx", v1.AccountEditable{Name: "Salary", Balance: types.MustParseMoney("500.00")})

	transaction := suite.createTestTransaction("user_tx", v1.TransactionEditable{
		AccountID:   account.ID,
		Type:        models.TransactionExpense,
		Amount:      types.MustParseMoney("120.50"),
		Description: "Groceries",
		Category:    "food",
	})
	suite.Assert().Equal(models.StatusCompleted, transaction.Status)
	suite.Assert().Equal("379.50", suite.getAccount("user_tx", account.ID.String()).Balance.String())

	r := suite.request("user_tx", http.MethodDelete, "/v1/transactions", v1.TransactionDelete{IDs: []uuid.UUID{transaction.ID}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	detail := suite.getAccount("user_tx", account.ID.String())
	suite.Assert().Equal("500.00", detail.Balance.String())
	suite.Assert().Equal(0, detail.TransactionCount)
}

func (suite *TestSuiteStandard) TestTransactionsIncome() {
	account := suite.createTestAccount("user_income", v1.AccountEditable{Name: "Salary"})

	suite.createTestTransaction("user_income", v1.TransactionEditable{
		AccountID: account.ID,
		Type:      models.TransactionIncome,
		Amount:    types.MustParseMoney("2500"),
	})

	suite.Assert().Equal("2500.00", suite.getAccount("user_income", account.ID.String()).Balance.String())
}

func (suite *TestSuiteStandard) TestTransactionsReceipt() {
	account := suite.createTestAccount("user_receipt", v1.AccountEditable{Name: "Salary"})

	transaction := suite.createTestTransaction("user_receipt", v1.TransactionEditable{
		AccountID:  account.ID,
		Type:       models.TransactionExpense,
		Amount:     types.MustParseMoney("12.00"),
		ReceiptURL: " https://example.com/receipts/1234.jpg ",
	})
	suite.Require().NotNil(transaction.ReceiptURL)
	suite.Assert().Equal("https://example.com/receipts/1234.jpg", *transaction.ReceiptURL)

	detail := suite.getAccount("user_receipt", account.ID.String())
	suite.Require().Len(detail.Transactions, 1)
	suite.Require().NotNil(detail.Transactions[0].ReceiptURL)
	suite.Assert().Equal("https://example.com/receipts/1234.jpg", *detail.Transactions[0].ReceiptURL)

	withoutReceipt := suite.createTestTransaction("user_receipt", v1.TransactionEditable{
		AccountID: account.ID,
		Type:      models.TransactionExpense,
		Amount:    types.MustParseMoney("3.00"),
	})
	suite.Assert().Nil(withoutReceipt.ReceiptURL)
}

func (suite *TestSuiteStandard) TestTransactionsRecurring() {
	account := suite.createTestAccount("user_recurring", v1.AccountEditable{Name: "Salary"})
	interval := recurrence.Weekly

	transaction := suite.createTestTransaction("user_recurring", v1.TransactionEditable{
		AccountID:         account.ID,
		Type:              models.TransactionExpense,
		Amount:            types.MustParseMoney("9.99"),
		Date:              time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		IsRecurring:       true,
		RecurringInterval: &interval,
	})

	suite.Assert().True(transaction.IsRecurring)
	suite.Require().NotNil(transaction.NextRecurringDate)
	suite.Assert().Equal(time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), transaction.NextRecurringDate.UTC())
}

func (suite *TestSuiteStandard) TestTransactionsCreateInvalid() {
	account := suite.createTestAccount("user_tx_invalid", v1.AccountEditable{Name: "Salary", Balance: types.MustParseMoney("100")})
	other := suite.createTestAccount("user_tx_other", v1.AccountEditable{Name: "Not mine"})
	weekly := recurrence.Weekly
	fortnightly := recurrence.Interval("FORTNIGHTLY")

	tests := []struct {
		name        string
		transaction v1.TransactionEditable
		status      int
	}{
		{"Zero amount", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionExpense}, http.StatusBadRequest},
		{"Negative amount", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionExpense, Amount: types.MustParseMoney("-5")}, http.StatusBadRequest},
		{"Unknown type", v1.TransactionEditable{AccountID: account.ID, Type: "TRANSFER", Amount: types.MustParseMoney("5")}, http.StatusBadRequest},
		{"Unknown status", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionIncome, Amount: types.MustParseMoney("5"), Status: "LOST"}, http.StatusBadRequest},
		{"Recurring without interval", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionIncome, Amount: types.MustParseMoney("5"), IsRecurring: true}, http.StatusBadRequest},
		{"Unknown interval", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionIncome, Amount: types.MustParseMoney("5"), IsRecurring: true, RecurringInterval: &fortnightly}, http.StatusBadRequest},
		{"Account of other user", v1.TransactionEditable{AccountID: other.ID, Type: models.TransactionIncome, Amount: types.MustParseMoney("5"), IsRecurring: true, RecurringInterval: &weekly}, http.StatusNotFound},
		{"Unknown account", v1.TransactionEditable{AccountID: uuid.New(), Type: models.TransactionIncome, Amount: types.MustParseMoney("5")}, http.StatusNotFound},
		{"Relative receipt URL", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionIncome, Amount: types.MustParseMoney("5"), ReceiptURL: "receipts/1234.jpg"}, http.StatusBadRequest},
		{"Amount too large", v1.TransactionEditable{AccountID: account.ID, Type: models.TransactionIncome, Amount: types.NewMoney(decimal.RequireFromString("100000000000000000000"))}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.createTestTransaction("user_tx_invalid", tt.transaction, tt.status)
		})
	}

	suite.Assert().Equal("100.00", suite.getAccount("user_tx_invalid", account.ID.String()).Balance.String(), "A rejected transaction changed the balance")
	suite.Assert().Equal("0.00", suite.getAccount("user_tx_other", other.ID.String()).Balance.String(), "A rejected transaction changed the balance")
}

func (suite *TestSuiteStandard) TestTransactionsDeleteIgnoresForeign() {
	mine := suite.createTestAccount("user_delete", v1.AccountEditable{Name: "Salary", Balance: types.MustParseMoney("100")})
	theirs := suite.createTestAccount("user_delete_other", v1.AccountEditable{Name: "Salary", Balance: types.MustParseMoney("100")})

	own := suite.createTestTransaction("user_delete", v1.TransactionEditable{AccountID: mine.ID, Type: models.TransactionExpense, Amount: types.MustParseMoney("10")})
	foreign := suite.createTestTransaction("user_delete_other", v1.TransactionEditable{AccountID: theirs.ID, Type: models.TransactionExpense, Amount: types.MustParseMoney("10")})

	// Duplicates and unknown IDs do not fail the request
	r := suite.request("user_delete", http.MethodDelete, "/v1/transactions", v1.TransactionDelete{IDs: []uuid.UUID{own.ID, own.ID, foreign.ID, uuid.New()}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	suite.Assert().Equal("100.00", suite.getAccount("user_delete", mine.ID.String()).Balance.String())
	suite.Assert().Equal("90.00", suite.getAccount("user_delete_other", theirs.ID.String()).Balance.String())
	suite.Assert().Equal(1, suite.getAccount("user_delete_other", theirs.ID.String()).TransactionCount)
}

func (suite *TestSuiteStandard) TestTransactionsDeleteInvalid() {
	tests := []struct {
		name string
		body any
	}{
		{"No IDs", v1.TransactionDelete{}},
		{"Only nil IDs", v1.TransactionDelete{IDs: []uuid.UUID{uuid.Nil}}},
		{"Invalid ID", `{ "ids": ["not-a-uuid"] }`},
		{"Empty body", ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request("user_delete_invalid", http.MethodDelete, "/v1/transactions", tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
		})
	}
}
