package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the prediction service.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

// parseAPIError reads {"code","message"} bodies and keeps anything else
// verbatim as the message.
func parseAPIError(status int, requestID string, body []byte) *APIError {
	e := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		return e
	}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) != nil {
		e.Message = string(body)
		return e
	}
	e.Code, e.Message = payload.Code, payload.Message
	return e
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deepbde: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool    { return e.StatusCode == http.StatusNotFound }
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

//Personal.AI order the ending
