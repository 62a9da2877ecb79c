package v1_test

import (
	"net/http"
	"time"

	"github.com/rupify/backend/internal/types"
	v1 "github.com/rupify/backend/pkg/controllers/v1"
	"github.com/rupify/backend/pkg/models"
	"github.com/rupify/backend/test"
)

func (suite *TestSuiteStandard) TestBudgetUpdate() {
	r := suite.request("user_budget", http.MethodPut, "/v1/budget", v1.BudgetEditable{Amount: types.MustParseMoney("1000")})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("1000.00", response.Data.Amount.String())
	id := response.Data.ID

	r = suite.request("user_budget", http.MethodPut, "/v1/budget", v1.BudgetEditable{Amount: types.MustParseMoney("1250.50")})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal("1250.50", response.Data.Amount.String())
	suite.Assert().Equal(id, response.Data.ID, "A second budget was created for the user")
}

func (suite *TestSuiteStandard) TestBudgetUpdateInvalid() {
	for _, body := range []any{v1.BudgetEditable{}, `{ "amount": "-10" }`, `{ "amount": "ten" }`} {
		r := suite.request("user_budget_invalid", http.MethodPut, "/v1/budget", body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestBudgetGet() {
	account := suite.createTestAccount("user_budget_get", v1.AccountEditable{Name: "Salary"})

	// Without a budget
	r := suite.request("user_budget_get", http.MethodGet, "/v1/budget?account="+account.ID.String()+"&month=2024-05", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetStatusResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Nil(response.Data.Budget)
	suite.Assert().Equal("0.00", response.Data.CurrentExpenses.String())

	r = suite.request("user_budget_get", http.MethodPut, "/v1/budget", v1.BudgetEditable{Amount: types.MustParseMoney("1000")})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	for _, tx := range []struct {
		amount string
		date   time.Time
	}{
		{"300.25", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
		{"450.95", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)},
		{"99", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	} {
		suite.createTestTransaction("user_budget_get", v1.TransactionEditable{
			AccountID: account.ID,
			Type:      models.TransactionExpense,
			Amount:    types.MustParseMoney(tx.amount),
			Date:      tx.date,
		})
	}

	r = suite.request("user_budget_get", http.MethodGet, "/v1/budget?account="+account.ID.String()+"&month=2024-05", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().NotNil(response.Data.Budget)
	suite.Assert().Equal("1000.00", response.Data.Budget.Amount.String())
	suite.Assert().Equal("751.20", response.Data.CurrentExpenses.String())
	suite.Assert().Equal("2024-05", response.Data.Month)
	suite.Assert().Equal(account.ID.String(), response.Data.AccountID)
}

func (suite *TestSuiteStandard) TestBudgetGetInvalid() {
	account := suite.createTestAccount("user_budget_query", v1.AccountEditable{Name: "Salary"})
	other := suite.createTestAccount("user_budget_other", v1.AccountEditable{Name: "Salary"})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"No account", "", http.StatusBadRequest},
		{"Invalid account", "?account=not-a-uuid", http.StatusBadRequest},
		{"Invalid month", "?account=" + account.ID.String() + "&month=May", http.StatusBadRequest},
		{"Account of other user", "?account=" + other.ID.String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request("user_budget_query", http.MethodGet, "/v1/budget"+tt.query, "")
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}
