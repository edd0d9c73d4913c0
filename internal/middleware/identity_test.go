/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"intercom/internal/entity"
	"intercom/internal/token"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

var tokenSecret = []byte("token-secret")

func newIdentity() *Identity {
	return NewIdentity(sessions.NewCookieStore([]byte("session-secret")), tokenSecret)
}

func protected(t *testing.T, captured *entity.User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		require.True(t, ok)
		*captured = user
		w.WriteHeader(http.StatusNoContent)
	}
}

func TestRequireRejectsAnonymous(t *testing.T) {
	identity := newIdentity()

	recorder := httptest.NewRecorder()
	var captured entity.User
	identity.Require(protected(t, &captured))(recorder, httptest.NewRequest(http.MethodGet, "/messages", nil))

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Empty(t, captured.UUID)

	// The rejection uses the same JSON error shape as the handlers.
	require.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "unauthorized", body["error"])
}

func TestRequireAcceptsBearerToken(t *testing.T) {
	identity := newIdentity()

	raw, err := token.Generate(tokenSecret, time.Hour, &entity.User{UUID: "u1", Username: "alice"})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/messages", nil)
	request.Header.Set("Authorization", "Bearer "+raw)

	recorder := httptest.NewRecorder()
	var captured entity.User
	identity.Require(protected(t, &captured))(recorder, request)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "u1", captured.UUID)
	require.Equal(t, "alice", captured.Username)
}

func TestRequireRejectsForgedBearerToken(t *testing.T) {
	identity := newIdentity()

	raw, err := token.Generate([]byte("attacker-secret"), time.Hour, &entity.User{UUID: "u1", Username: "alice"})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/messages", nil)
	request.Header.Set("Authorization", "Bearer "+raw)

	recorder := httptest.NewRecorder()
	var captured entity.User
	identity.Require(protected(t, &captured))(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAcceptsSessionCookie(t *testing.T) {
	store := sessions.NewCookieStore([]byte("session-secret"))
	identity := NewIdentity(store, tokenSecret)

	// Build a login response carrying the session cookie.
	loginRecorder := httptest.NewRecorder()
	loginRequest := httptest.NewRequest(http.MethodPost, "/login", nil)
	session, err := store.Get(loginRequest, SessionName)
	require.NoError(t, err)
	session.Values["user_uuid"] = "u2"
	session.Values["username"] = "bob"
	session.Values["display_name"] = "Bob"
	require.NoError(t, session.Save(loginRequest, loginRecorder))

	request := httptest.NewRequest(http.MethodGet, "/messages", nil)
	for _, cookie := range loginRecorder.Result().Cookies() {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	var captured entity.User
	identity.Require(protected(t, &captured))(recorder, request)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "u2", captured.UUID)
	require.Equal(t, "Bob", captured.DisplayName)
}
