package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rupify/backend/pkg/httperrors"
	"github.com/rupify/backend/pkg/httputil"
)

// RegisterBudgetRoutes registers the routes for the budget of the user with
// the RouterGroup that is passed.
func (co Controller) RegisterBudgetRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsBudget)
	r.GET("", co.GetBudget)
	r.PUT("", co.UpdateBudget)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Budget
// @Success		204
// @Router			/v1/budget [options]
func OptionsBudget(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// @Summary		Get budget
// @Description	Returns the budget of the user and the expenses of an account in a month
// @Tags			Budget
// @Produce		json
// @Success		200		{object}	BudgetStatusResponse
// @Failure		400		{object}	BudgetStatusResponse
// @Failure		404		{object}	BudgetStatusResponse
// @Failure		503		{object}	BudgetStatusResponse
// @Param			account	query		string	true	"ID of the account"
// @Param			month	query		string	false	"Month in YYYY-MM format"
// @Router			/v1/budget [get]
func (co Controller) GetBudget(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var filter BudgetQueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		httperrors.InvalidMonth(c)
		return
	}

	if filter.Account == "" {
		httperrors.Handler(c, errAccountQueryNotSet)
		return
	}

	accountID, err := httputil.UUIDFromString(filter.Account)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	status, err := co.Service.CurrentBudget(c.Request.Context(), owner, accountID, filter.Month)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := newBudgetStatus(status)
	c.JSON(http.StatusOK, BudgetStatusResponse{Data: &data})
}

// @Summary		Update budget
// @Description	Sets the monthly budget of the user
// @Tags			Budget
// @Produce		json
// @Success		200		{object}	BudgetResponse
// @Failure		400		{object}	BudgetResponse
// @Failure		503		{object}	BudgetResponse
// @Param			budget	body		BudgetEditable	true	"Budget"
// @Router			/v1/budget [put]
func (co Controller) UpdateBudget(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var editable BudgetEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	budget, err := co.Service.UpsertBudget(c.Request.Context(), owner, editable.Amount)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Data: &budget})
}
