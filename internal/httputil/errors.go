package httputil

import "net/http"

// HTTPError carries the status a handler wants the JSON wrapper to write.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func BadRequest(msg string) *HTTPError { return &HTTPError{Status: http.StatusBadRequest, Message: msg} }

func Unauthorized(msg string) *HTTPError { return &HTTPError{Status: http.StatusUnauthorized, Message: msg} }

func NotFound(msg string) *HTTPError { return &HTTPError{Status: http.StatusNotFound, Message: msg} }
