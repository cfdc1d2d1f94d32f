package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoRows reports a definitive empty single-row result. Callers use
// it to tell "no such row" apart from a failed request.
var ErrNoRows = errors.New("backend: no rows returned")

// APIError is an error answer from the service. Message carries the
// service's own text verbatim so it can be surfaced to the user as-is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend: request failed with status %d", e.Status)
}

// apiErrorBody covers the error shapes the service emits across its
// auth and database surfaces.
type apiErrorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return apiErr
	}
	var body apiErrorBody
	if json.Unmarshal(raw, &body) != nil {
		return apiErr
	}
	switch {
	case body.Message != "":
		apiErr.Message = body.Message
	case body.ErrorDescription != "":
		apiErr.Message = body.ErrorDescription
	case body.Msg != "":
		apiErr.Message = body.Msg
	case body.ErrorField != "":
		apiErr.Message = body.ErrorField
	}
	return apiErr
}
