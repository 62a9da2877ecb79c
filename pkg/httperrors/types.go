package httperrors

// HTTPError is the body of every error response.
type HTTPError struct {
	Error string `json:"error" example:"The specified resource ID is not a valid UUID"`
}
