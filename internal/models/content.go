package models

import "fmt"

// Messages returned to API callers.
const (
	MsgURLRequired    = "URL is required"
	MsgInvalidBody    = "invalid request body"
	MsgExtractFailure = "Failed to extract text from the website"
)

type ContentRequest struct {
	URL string `json:"url"`
}

type ContentResponse struct {
	Content string `json:"content"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError reports a request that was rejected before any fetch.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the request. Only emptiness is checked; a malformed URL is
// left for the fetch to reject.
func (r ContentRequest) Validate() error {
	if r.URL == "" {
		return ValidationError{Field: "url", Message: MsgURLRequired}
	}
	return nil
}
