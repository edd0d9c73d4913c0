/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/middleware"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeJSON parses and validates a request body into dst.
// Any shape problem is an InvalidInput, so it maps to 400.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("malformed request body: %w", apperr.ErrInvalidInput)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps a service error onto the HTTP taxonomy. Only the
// taxonomy text reaches the client; the wrapped detail stays server-side.
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, apperr.Status(err), map[string]string{"error": apperr.Message(err)})
}

// requestUser pulls the verified identity out of the context or fails the
// request with 401. Handlers are only reachable through the identity
// middleware, so a miss here means a wiring bug.
func requestUser(w http.ResponseWriter, r *http.Request) (entity.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, apperr.ErrUnauthorized)
	}
	return user, ok
}

// conversationRef picks the conversation target out of a request carrying
// either a recipient or a group. Exactly one must be present.
func conversationRef(recipientUUID, groupUUID string) (string, error) {
	switch {
	case recipientUUID != "" && groupUUID != "":
		return "", fmt.Errorf("recipient_id and group_id are mutually exclusive: %w", apperr.ErrInvalidInput)
	case recipientUUID != "":
		return recipientUUID, nil
	case groupUUID != "":
		return groupUUID, nil
	default:
		return "", fmt.Errorf("either recipient_id or group_id is required: %w", apperr.ErrInvalidInput)
	}
}
