package v1

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rupify/backend/pkg/alerts"
	"github.com/rupify/backend/pkg/httperrors"
	"github.com/rupify/backend/pkg/httputil"
	"github.com/rupify/backend/pkg/ledger"
)

// TriggerTokenHeader is the header carrying the shared secret of the alert trigger.
const TriggerTokenHeader = "X-Trigger-Token"

type BudgetAlertResponse struct {
	Data  *alerts.Report `json:"data,omitempty"`                                                  // Summary of the alert pass
	Error *string        `json:"error,omitempty" example:"the database is currently unavailable"` // The error, if any occurred
}

// RegisterBudgetAlertRoutes registers the trigger for the budget alert pass.
// Requests must send the token in the X-Trigger-Token header.
func (co Controller) RegisterBudgetAlertRoutes(r *gin.RouterGroup, token string) {
	r.OPTIONS("", OptionsBudgetAlerts)
	r.POST("", requireTriggerToken(token), co.RunBudgetAlerts)
}

func requireTriggerToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sent := c.GetHeader(TriggerTokenHeader)
		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			httperrors.Handler(c, fmt.Errorf("%w: the trigger token is invalid", ledger.ErrUnauthorized))
			return
		}

		c.Next()
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budget
// @Success		204
// @Router			/v1/budget-alerts [options]
func OptionsBudgetAlerts(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Run budget alerts
// @Description	Evaluates all budgets and alerts users that have spent 75% of their budget this month
// @Tags			Budget
// @Produce		json
// @Success		200	{object}	BudgetAlertResponse
// @Failure		401	{object}	BudgetAlertResponse
// @Failure		503	{object}	BudgetAlertResponse
// @Router			/v1/budget-alerts [post]
func (co Controller) RunBudgetAlerts(c *gin.Context) {
	report, err := co.Alerts.Run(c.Request.Context())
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetAlertResponse{Data: &report})
}
