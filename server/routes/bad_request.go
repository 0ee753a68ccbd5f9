// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import "fmt"

// BadRequestError signals that the request parameters are missing or invalid.
//
// The error handling middleware is expected to catch this error, set the HTTP
// status to 400 Bad Request, and show the message to the admin.
type BadRequestError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BadRequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *BadRequestError) Unwrap() error {
	return e.Err
}

// NewBadRequestError creates a BadRequestError with a formatted message.
func NewBadRequestError(format string, args ...any) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// wrapBadRequest creates a BadRequestError that keeps err in the chain.
func wrapBadRequest(message string, err error) error {
	return &BadRequestError{Message: message, Err: err}
}
