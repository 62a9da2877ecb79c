package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rupify/backend/pkg/ledger"
)

// ContextURL is the gin context key for the base URL of the API.
const ContextURL = "requestURL"

// BindData binds the JSON body of the request to data.
//
// All errors wrap ledger.ErrInvalidRequest.
func BindData(c *gin.Context, data any) error {
	if err := c.ShouldBindJSON(data); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrRequestBodyEmpty
		}

		// Amounts that are not valid are reported as they are
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return err
		}

		var jsonUnmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &jsonUnmarshalTypeError) {
			return fmt.Errorf("%w: field '%s' must be of type %s", ledger.ErrInvalidRequest, jsonUnmarshalTypeError.Field, jsonUnmarshalTypeError.Type)
		}

		log.Debug().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return ErrInvalidBody
	}

	return nil
}

// UUIDFromString parses a string to a UUID. The empty string is uuid.Nil.
func UUIDFromString(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return u, nil
}

// UUIDParam parses the path parameter with the name as UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := UUIDFromString(c.Param(name))
	if err != nil {
		return uuid.Nil, err
	}

	if id == uuid.Nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return id, nil
}

// RequestURL returns the base URL of the API as set by the URL middleware.
func RequestURL(c *gin.Context) string {
	return c.GetString(ContextURL)
}
