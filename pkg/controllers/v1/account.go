package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rupify/backend/pkg/httperrors"
	"github.com/rupify/backend/pkg/httputil"
	"github.com/rupify/backend/pkg/models"
)

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAccountList)
		r.GET("", co.GetAccounts)
		r.POST("", co.CreateAccount)
	}

	// Account with ID
	{
		r.OPTIONS("/:id", OptionsAccountDetail)
		r.GET("/:id", co.GetAccount)
		r.OPTIONS("/:id/default", OptionsAccountDefault)
		r.POST("/:id/default", co.SetDefaultAccount)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/accounts/{id}/default [options]
func OptionsAccountDefault(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Create account
// @Description	Creates a new account. The first account of a user is the default account.
// @Tags			Accounts
// @Produce		json
// @Success		201		{object}	AccountResponse
// @Failure		400		{object}	AccountResponse
// @Failure		401		{object}	AccountResponse
// @Failure		503		{object}	AccountResponse
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/accounts [post]
func (co Controller) CreateAccount(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var editable AccountEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	account, err := co.Service.CreateAccount(c.Request.Context(), owner, editable.create())
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusCreated, AccountResponse{Data: &data})
}

// @Summary		List accounts
// @Description	Returns the accounts of the user, newest first
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountListResponse
// @Failure		401	{object}	AccountListResponse
// @Failure		503	{object}	AccountListResponse
// @Router			/v1/accounts [get]
func (co Controller) GetAccounts(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	accounts, err := co.Service.ListAccounts(c.Request.Context(), owner)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	// When there are no resources, we want an empty list, not null
	// Therefore, we use make to create a slice with zero elements
	// which will be marshalled to an empty JSON array
	data := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, newAccount(c, account))
	}

	c.JSON(http.StatusOK, AccountListResponse{Data: data})
}

// @Summary		Get account
// @Description	Returns a specific account with its transactions
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountDetailResponse
// @Failure		400	{object}	AccountDetailResponse
// @Failure		404	{object}	AccountDetailResponse
// @Failure		503	{object}	AccountDetailResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [get]
func (co Controller) GetAccount(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	detail, err := co.Service.GetAccount(c.Request.Context(), owner, id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	transactions := detail.Transactions
	if transactions == nil {
		transactions = make([]models.Transaction, 0)
	}

	c.JSON(http.StatusOK, AccountDetailResponse{
		Data: &AccountDetail{
			Account:          newAccount(c, detail.Account),
			Transactions:     transactions,
			TransactionCount: detail.TransactionCount,
		},
	})
}

// @Summary		Set default account
// @Description	Makes the account the default account of the user
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	AccountResponse
// @Failure		400	{object}	AccountResponse
// @Failure		404	{object}	AccountResponse
// @Failure		503	{object}	AccountResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/accounts/{id}/default [post]
func (co Controller) SetDefaultAccount(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	id, err := httputil.UUIDParam(c, "id")
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	account, err := co.Service.SetDefaultAccount(c.Request.Context(), owner, id)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	data := newAccount(c, account)
	c.JSON(http.StatusOK, AccountResponse{Data: &data})
}
