package ledger

import (
	"errors"

	"github.com/rupify/backend/internal/types"
)

var (
	ErrUnauthorized      = errors.New("the caller identity is missing or invalid")
	ErrNotFound          = errors.New("there is no resource matching your query for this user")
	ErrInvalidAmount     = types.ErrInvalidAmount
	ErrInvalidRequest    = errors.New("the request is invalid")
	ErrStoreUnavailable  = errors.New("the data store is unavailable")
	ErrNotifyUnavailable = errors.New("the notification service is unavailable")
)
