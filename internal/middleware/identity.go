/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/token"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the logged-in identity.
const SessionName = "auth-session"

type userKey struct{}

// WithUser attaches a verified user to the context. Exposed so tests can
// call handlers without going through the middleware.
func WithUser(ctx context.Context, user entity.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFrom extracts the verified user attached by Require.
func UserFrom(ctx context.Context) (entity.User, bool) {
	user, ok := ctx.Value(userKey{}).(entity.User)
	return user, ok
}

// Identity verifies who is calling. A request may present either a bearer
// token or the session cookie; both resolve to the same user value, and
// requests with neither are rejected before reaching a handler.
type Identity struct {
	store  *sessions.CookieStore
	secret []byte
}

func NewIdentity(store *sessions.CookieStore, tokenSecret []byte) *Identity {
	return &Identity{store: store, secret: tokenSecret}
}

// Require wraps a handler so it only runs with a verified identity in the
// request context.
func (i *Identity) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, ok := i.fromBearer(r); ok {
			next(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}
		if user, ok := i.fromSession(r); ok {
			next(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}
		// Same wire shape as every handler error.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": apperr.ErrUnauthorized.Error()})
	}
}

func (i *Identity) fromBearer(r *http.Request) (entity.User, bool) {
	raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || raw == "" {
		return entity.User{}, false
	}
	claims, err := token.Validate(i.secret, raw)
	if err != nil {
		return entity.User{}, false
	}
	return entity.User{
		UUID:        claims.Subject,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
	}, true
}

func (i *Identity) fromSession(r *http.Request) (entity.User, bool) {
	session, err := i.store.Get(r, SessionName)
	if err != nil {
		return entity.User{}, false
	}
	userUUID, ok1 := session.Values["user_uuid"].(string)
	username, ok2 := session.Values["username"].(string)
	if !(ok1 && ok2) {
		return entity.User{}, false
	}
	displayName, _ := session.Values["display_name"].(string)

	return entity.User{
		UUID:        userUUID,
		Username:    username,
		DisplayName: displayName,
	}, true
}
