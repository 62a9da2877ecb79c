package v1_test

import (
	"net/http"
	"time"

	"github.com/rupify/backend/internal/types"
	"github.com/rupify/backend/pkg/alerts"
	v1 "github.com/rupify/backend/pkg/controllers/v1"
	"github.com/rupify/backend/pkg/models"
	"github.com/rupify/backend/test"
)

func (suite *TestSuiteStandard) TestBudgetAlertsTrigger() {
	account := suite.createTestAccount("user_alert", v1.AccountEditable{Name: "Salary"})

	r := suite.request("user_alert", http.MethodPut, "/v1/budget", v1.BudgetEditable{Amount: types.MustParseMoney("100")})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.createTestTransaction("user_alert", v1.TransactionEditable{
		AccountID: account.ID,
		Type:      models.TransactionExpense,
		Amount:    types.MustParseMoney("80"),
		Date:      time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	})

	r = test.Request(suite.T(), suite.engine, http.MethodPost, "http://example.com/v1/budget-alerts", "", map[string]string{
		v1.TriggerTokenHeader: triggerToken,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BudgetAlertResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Equal(alerts.Report{Budgets: 1, Sent: 1}, *response.Data)

	suite.Require().Len(suite.notifier.sent, 1)
	suite.Assert().Equal("user_alert@example.com", suite.notifier.sent[0].To)
}

func (suite *TestSuiteStandard) TestBudgetAlertsTriggerToken() {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"No token", map[string]string{}},
		{"Wrong token", map[string]string{v1.TriggerTokenHeader: "guessed"}},
		{"User token", map[string]string{"Authorization": "Bearer " + suite.token("user_trigger")}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := test.Request(suite.T(), suite.engine, http.MethodPost, "http://example.com/v1/budget-alerts", "", tt.headers)
			test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
		})
	}

	suite.Assert().Len(suite.notifier.sent, 0)
}

func (suite *TestSuiteStandard) TestBudgetAlertsDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), suite.engine, http.MethodPost, "http://example.com/v1/budget-alerts", "", map[string]string{
		v1.TriggerTokenHeader: triggerToken,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusServiceUnavailable)
}
