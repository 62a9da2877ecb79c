// Package v1 implements the JSON API for accounts, transactions and budgets
// of the authenticated user.
package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rupify/backend/pkg/alerts"
	"github.com/rupify/backend/pkg/httputil"
	"github.com/rupify/backend/pkg/ledger"
)

type Controller struct {
	Service *ledger.Service
	Alerts  *alerts.Scheduler
}

var (
	errAccountQueryNotSet = fmt.Errorf("%w: the account query parameter must be set", ledger.ErrInvalidRequest)
	errIDsNotSet          = fmt.Errorf("%w: the ids of the transactions to delete must be set", ledger.ErrInvalidRequest)
	errIntervalNotSet     = fmt.Errorf("%w: recurringInterval must be set for recurring transactions", ledger.ErrInvalidRequest)
	errNoUser             = errors.New("no authenticated user in request context")
)

// ownerID returns the ID of the authenticated user.
func ownerID(c *gin.Context) (uuid.UUID, error) {
	user, ok := httputil.User(c)
	if !ok {
		return uuid.Nil, errNoUser
	}

	return user.ID, nil
}
