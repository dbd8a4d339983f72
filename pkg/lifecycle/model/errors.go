package model

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrInvalidParameter = errors.New("") // Base error for invalid parameter
var ErrWrongStatus = errors.New("")
var ErrDataNotFound = errors.New("") // Base error for data not found
var ErrAuth = errors.New("")         // Authentication against the authority failed.
var ErrPermission = errors.New("")   // Authenticated but lacking a capability.
var ErrCAExpired = errors.New("")    // The signing CA cannot cover the requested lifetime.
var ErrTransient = errors.New("")    // Authority unavailable or returned a 5xx.

var ErrRequestNotFound = fmt.Errorf("%w", ErrDataNotFound)

func ErrToHttpStatus(err error) int {
	if errors.Is(err, ErrInvalidParameter) {
		return http.StatusBadRequest
	} else if errors.Is(err, ErrAuth) {
		return http.StatusUnauthorized
	} else if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	} else if errors.Is(err, ErrDataNotFound) {
		return http.StatusNotFound
	} else if errors.Is(err, ErrWrongStatus) {
		return http.StatusConflict
	} else if errors.Is(err, ErrCAExpired) {
		return http.StatusBadGateway
	} else if errors.Is(err, ErrTransient) {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
