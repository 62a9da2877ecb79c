package v1_test

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rupify/backend/internal/types"
	v1 "github.com/rupify/backend/pkg/controllers/v1"
	"github.com/rupify/backend/pkg/models"
	"github.com/rupify/backend/test"
)

func (suite *TestSuiteStandard) TestAccountsCreate() {
	first := suite.createTestAccount("user_accounts", v1.AccountEditable{Name: "Salary", Balance: types.MustParseMoney("500")})
	suite.Assert().True(first.IsDefault, "The first account is not the default account")
	suite.Assert().Equal(models.AccountCurrent, first.Type)
	suite.Assert().Equal("500.00", first.Balance.String())
	suite.Assert().Equal("http://example.com/v1/accounts/"+first.ID.String(), first.Links.Self)

	second := suite.createTestAccount("user_accounts", v1.AccountEditable{Name: "Savings", Type: models.AccountSavings})
	suite.Assert().False(second.IsDefault)

	third := suite.createTestAccount("user_accounts", v1.AccountEditable{Name: "Holidays", Type: models.AccountSavings, IsDefault: true})
	suite.Assert().True(third.IsDefault)
	suite.Assert().False(suite.getAccount("user_accounts", first.ID.String()).IsDefault, "Two default accounts exist")
}

func (suite *TestSuiteStandard) TestAccountsCreateInvalid() {
	tests := []struct {
		name string
		body any
	}{
		{"Empty name", v1.AccountEditable{Name: "   "}},
		{"Unknown type", v1.AccountEditable{Name: "Cash", Type: "WALLET"}},
		{"Broken JSON", `{ "name": "Cash", }`},
		{"Invalid balance", `{ "name": "Cash", "balance": "lots" }`},
		{"Empty body", ""},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request("user_invalid", http.MethodPost, "/v1/accounts", tt.body)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
			suite.Assert().NotEmpty(test.DecodeError(suite.T(), r.Body.Bytes()))
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsList() {
	r := suite.request("user_list", http.MethodGet, "/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`{"data": []}`, r.Body.String())

	suite.createTestAccount("user_list", v1.AccountEditable{Name: "Salary"})
	suite.createTestAccount("user_list", v1.AccountEditable{Name: "Savings"})
	suite.createTestAccount("user_other", v1.AccountEditable{Name: "Not mine"})

	r = suite.request("user_list", http.MethodGet, "/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 2)
}

func (suite *TestSuiteStandard) TestAccountsGet() {
	account := suite.createTestAccount("user_get", v1.AccountEditable{Name: "Salary", Balance: types.MustParseMoney("500")})

	r := suite.request("user_get", http.MethodPost, "/v1/transactions", v1.TransactionEditable{
		AccountID: account.ID,
		Type:      models.TransactionExpense,
		Amount:    types.MustParseMoney("20"),
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	detail := suite.getAccount("user_get", account.ID.String())
	suite.Assert().Equal("480.00", detail.Balance.String())
	suite.Assert().Equal(1, detail.TransactionCount)
	suite.Require().Len(detail.Transactions, 1)
	suite.Assert().Equal("20.00", detail.Transactions[0].Amount.String())
}

func (suite *TestSuiteStandard) TestAccountsGetErrors() {
	account := suite.createTestAccount("user_owner", v1.AccountEditable{Name: "Salary"})

	tests := []struct {
		name    string
		subject string
		path    string
		status  int
	}{
		{"Other user", "user_intruder", "/v1/accounts/" + account.ID.String(), http.StatusNotFound},
		{"Unknown ID", "user_owner", "/v1/accounts/" + uuid.New().String(), http.StatusNotFound},
		{"Invalid ID", "user_owner", "/v1/accounts/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(tt.subject, http.MethodGet, tt.path, "")
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestAccountsSetDefault() {
	first := suite.createTestAccount("user_default", v1.AccountEditable{Name: "Salary"})
	second := suite.createTestAccount("user_default", v1.AccountEditable{Name: "Savings"})

	r := suite.request("user_default", http.MethodPost, "/v1/accounts/"+second.ID.String()+"/default", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().True(response.Data.IsDefault)

	suite.Assert().False(suite.getAccount("user_default", first.ID.String()).IsDefault)
	suite.Assert().True(suite.getAccount("user_default", second.ID.String()).IsDefault)

	// Another user cannot make the account their default
	r = suite.request("user_intruder", http.MethodPost, "/v1/accounts/"+first.ID.String()+"/default", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
	suite.Assert().False(suite.getAccount("user_default", first.ID.String()).IsDefault)
}

func (suite *TestSuiteStandard) TestAccountsDBClosed() {
	suite.CloseDB()

	r := suite.request("user_closed", http.MethodGet, "/v1/accounts", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusServiceUnavailable)
	suite.Assert().Contains(test.DecodeError(suite.T(), r.Body.Bytes()), "database is currently unavailable")
}

func (suite *TestSuiteStandard) TestAccountsOptions() {
	tests := []struct {
		path     string
		expected string
	}{
		{"/v1/accounts", "OPTIONS, GET, POST"},
		{"/v1/accounts/" + uuid.New().String(), "OPTIONS, GET"},
		{"/v1/accounts/" + uuid.New().String() + "/default", "OPTIONS, POST"},
	}

	for _, tt := range tests {
		suite.Run(tt.path, func() {
			r := suite.request("user_options", http.MethodOptions, tt.path, "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
			suite.Assert().Equal(tt.expected, r.Header().Get("allow"))
		})
	}
}
