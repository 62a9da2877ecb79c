package httperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/rupify/backend/pkg/ledger"
)

// New writes an error response with the status. The message is formatted
// from msgAndArgs.
func New(c *gin.Context, status int, msgAndArgs ...any) {
	// Format msgAndArgs in a final string.
	// This is taken almost exactly from https://github.com/stretchr/testify/blob/181cea6eab8b2de7071383eca4be32a424db38dd/assert/assertions.go#L181
	msg := ""
	if len(msgAndArgs) == 1 {
		if msgAsStr, ok := msgAndArgs[0].(string); ok {
			msg = msgAsStr
		}
		msg = fmt.Sprintf("%+v", msg)
	}

	if len(msgAndArgs) > 1 {
		msg = fmt.Sprintf(msgAndArgs[0].(string), msgAndArgs[1:]...)
	}

	c.AbortWithStatusJSON(status, HTTPError{
		Error: msg,
	})
}

func InvalidUUID(c *gin.Context) {
	New(c, http.StatusBadRequest, "The specified resource ID is not a valid UUID")
}

func InvalidMonth(c *gin.Context) {
	New(c, http.StatusBadRequest, "Could not parse the specified month, did you use YYYY-MM format?")
}

// Status returns the HTTP status code for an error of the ledger.
func Status(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ledger.ErrNotifyUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Handler writes the error response for err.
//
// Caller errors are returned with their message. For all other errors, the
// message is logged and the response only contains the request ID.
func Handler(c *gin.Context, err error) {
	status := Status(err)
	requestID := requestid.Get(c)

	switch status {
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusBadRequest:
		New(c, status, err.Error())
	case http.StatusServiceUnavailable:
		log.Error().Str("request-id", requestID).Err(err).Msg("Store unavailable")
		New(c, status, "The database is currently unavailable, please try again later. The request id is '%v'", requestID)
	case http.StatusBadGateway:
		log.Error().Str("request-id", requestID).Err(err).Msg("Notifier unavailable")
		New(c, status, "The notification service is currently unavailable, please try again later. The request id is '%v'", requestID)
	default:
		log.Error().Str("request-id", requestID).Msgf("%T: %v", err, err.Error())
		New(c, status, "An error occurred on the server during your request, please contact your server administrator. The request id is '%v', send this to your server administrator to help them finding the problem", requestID)
	}
}
