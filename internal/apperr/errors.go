/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package apperr

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Failure taxonomy shared by every service. Handlers map these to HTTP
// status codes in one place, so clients can always tell a malformed
// request from "try again later".
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// FromStorage translates a storage-layer error into the taxonomy.
// A missing record is a business-rule failure; everything else, including
// an exceeded deadline, means the backing store could not serve the call
// and the client should retry on its own schedule.
func FromStorage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStorageUnavailable
	}
	return ErrStorageUnavailable
}

// Message reports the client-safe text for an error from the taxonomy.
// Wrapping context stays in the logs, never on the wire.
func Message(err error) string {
	for _, sentinel := range []error{
		ErrInvalidInput, ErrUnauthorized, ErrForbidden, ErrNotFound,
		ErrUnsupportedMedia, ErrPayloadTooLarge, ErrStorageUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal error"
}

// Status reports the HTTP status code for an error from the taxonomy.
// Unknown errors are treated as internal.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
