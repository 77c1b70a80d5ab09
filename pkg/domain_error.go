package pkg

import "net/http"

// DomainError is an error with an API-stable code and the HTTP status it
// maps to at the edge.

type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func NewDomainErrorSimple(code, message string, httpStatus int) *DomainError {
	if httpStatus == 0 {
		httpStatus = http.StatusInternalServerError
	}
	return &DomainError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func (e *DomainError) Error() string {
	return e.Code + ": " + e.Message
}

// HTTPError is the JSON body returned for failed requests.

type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) ToHTTPError() HTTPError {
	return HTTPError{Code: e.Code, Message: e.Message}
}
