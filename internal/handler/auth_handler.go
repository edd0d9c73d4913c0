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
	"time"

	"intercom/internal/middleware"
	"intercom/internal/service"
	"intercom/internal/token"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32"`
	DisplayName string `json:"display_name" validate:"max=64"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler is used to handle registration, login and logout.
// A successful login yields both a session cookie and a bearer token, so
// browser pages and polling clients authenticate the same account.
type AuthHandler struct {
	authService service.AuthService
	store       *sessions.CookieStore
	logger      *zap.SugaredLogger
	tokenSecret []byte
	tokenTTL    time.Duration
}

func NewAuthHandler(authService service.AuthService, store *sessions.CookieStore, logger *zap.SugaredLogger, tokenSecret []byte, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		logger:      logger,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

// Registers a new account
func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.authService.Register(r.Context(), req.Username, req.DisplayName, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// Authenticates an account and opens a session
func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	session, _ := a.store.Get(r, middleware.SessionName)
	session.Values["user_uuid"] = user.UUID
	session.Values["username"] = user.Username
	session.Values["display_name"] = user.DisplayName
	if err := sessions.Save(r, w); err != nil {
		a.logger.Errorw("session save failed", "err", err)
	}

	bearer, err := token.Generate(a.tokenSecret, a.tokenTTL, user)
	if err != nil {
		a.logger.Errorw("token generation failed", "err", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": bearer,
	})
}

// Closes the session
func (a *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := a.store.Get(r, middleware.SessionName)
	session.Options.MaxAge = -1
	if err := sessions.Save(r, w); err != nil {
		a.logger.Errorw("session save failed", "err", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
