package submit

import (
	"fmt"
	"net/http"
)

// StatusError is a response outside the 2xx range
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// DeliveryError is returned once every attempt has failed
type DeliveryError struct {
	Attempts int
	Status   int
	Err      error
}

func (e *DeliveryError) Error() string {
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
