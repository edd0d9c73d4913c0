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

	"intercom/internal/middleware"

	"github.com/gorilla/mux"
)

// NewRouter wires every route of the service. Authentication routes are
// open; everything else sits behind the identity middleware.
func NewRouter(identity *middleware.Identity, auth *AuthHandler, users *UserHandler, groups *GroupHandler, messages *MessageHandler) *mux.Router {
	r := mux.NewRouter()

	// Authentication routes
	r.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)

	// Directory routes
	r.HandleFunc("/users", identity.Require(users.ListUsers)).Methods(http.MethodGet)

	// Message routes
	r.HandleFunc("/messages", identity.Require(messages.GetMessages)).Methods(http.MethodGet)
	r.HandleFunc("/messages", identity.Require(messages.CreateMessage)).Methods(http.MethodPost)
	r.HandleFunc("/messages/attachment", identity.Require(messages.CreateAttachmentMessage)).Methods(http.MethodPost)
	r.HandleFunc("/files/{uuid}", identity.Require(messages.DownloadAttachment)).Methods(http.MethodGet)

	// Group routes
	r.HandleFunc("/groups", identity.Require(groups.ListGroups)).Methods(http.MethodGet)
	r.HandleFunc("/groups", identity.Require(groups.CreateGroup)).Methods(http.MethodPost)
	r.HandleFunc("/groups/members", identity.Require(groups.AddMember)).Methods(http.MethodPost)
	r.HandleFunc("/groups/members", identity.Require(groups.RemoveMember)).Methods(http.MethodDelete)
	r.HandleFunc("/groups/rename", identity.Require(groups.RenameGroup)).Methods(http.MethodPost)
	r.HandleFunc("/groups/nickname", identity.Require(groups.SetNickname)).Methods(http.MethodPost)
	r.HandleFunc("/groups/{uuid}/members", identity.Require(groups.GetMembers)).Methods(http.MethodGet)

	return r
}
