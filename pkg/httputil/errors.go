package httputil

import (
	"fmt"

	"github.com/rupify/backend/pkg/ledger"
)

var (
	ErrRequestBodyEmpty = fmt.Errorf("%w: the request body must not be empty", ledger.ErrInvalidRequest)
	ErrInvalidBody      = fmt.Errorf("%w: the body of your request contains invalid or un-parseable data. Please check and try again", ledger.ErrInvalidRequest)
	ErrInvalidUUID      = fmt.Errorf("%w: the specified resource ID is not a valid UUID", ledger.ErrInvalidRequest)
)
