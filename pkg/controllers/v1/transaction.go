package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rupify/backend/pkg/httperrors"
	"github.com/rupify/backend/pkg/httputil"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsTransactions)
	r.POST("", co.CreateTransaction)
	r.DELETE("", co.DeleteTransactions)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactions(c *gin.Context) {
	httputil.OptionsPostDelete(c)
}

// @Summary		Create transaction
// @Description	Books a transaction and updates the balance of its account
// @Tags			Transactions
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	TransactionResponse
// @Failure		404			{object}	TransactionResponse
// @Failure		503			{object}	TransactionResponse
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var editable TransactionEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	create, err := editable.create()
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	transaction, err := co.Service.CreateTransaction(c.Request.Context(), owner, create)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: &transaction})
}

// @Summary		Delete transactions
// @Description	Deletes transactions and reverts their effect on the account balances. IDs of transactions that do not exist are ignored.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httperrors.HTTPError
// @Failure		503	{object}	httperrors.HTTPError
// @Param			ids	body		TransactionDelete	true	"IDs of the transactions"
// @Router			/v1/transactions [delete]
func (co Controller) DeleteTransactions(c *gin.Context) {
	owner, err := ownerID(c)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	var body TransactionDelete
	err = httputil.BindData(c, &body)
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	ids := slices.DeleteFunc(slices.Clone(body.IDs), func(id uuid.UUID) bool {
		return id == uuid.Nil
	})
	if len(ids) == 0 {
		httperrors.Handler(c, errIDsNotSet)
		return
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	err = co.Service.DeleteTransactions(c.Request.Context(), owner, slices.Compact(ids))
	if err != nil {
		httperrors.Handler(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
