/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"

	"intercom/internal/apperr"
	"intercom/internal/repository"

	"go.uber.org/zap"
)

// UserHandler exposes the user directory, used by clients to pick DM peers
// and group members.
type UserHandler struct {
	userRepository repository.UserRepository
	logger         *zap.SugaredLogger
}

func NewUserHandler(users repository.UserRepository, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{userRepository: users, logger: logger}
}

// Lists every known user
func (u *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestUser(w, r); !ok {
		return
	}

	users, err := u.userRepository.GetAll(r.Context())
	if err != nil {
		u.logger.Errorw("user listing failed", "err", err)
		respondError(w, apperr.FromStorage(err))
		return
	}
	respondJSON(w, http.StatusOK, users)
}
