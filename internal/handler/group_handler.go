/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"fmt"
	"net/http"

	"intercom/internal/apperr"
	"intercom/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type createGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=64"`
	Members []string `json:"members" validate:"required,min=1,dive,uuid4"`
}

type memberRequest struct {
	GroupID string `json:"group_id" validate:"required,uuid4"`
	UserID  string `json:"user_id" validate:"required,uuid4"`
}

type renameGroupRequest struct {
	GroupID string `json:"group_id" validate:"required,uuid4"`
	NewName string `json:"new_name" validate:"required,max=64"`
}

type nicknameRequest struct {
	GroupID  string `json:"group_id" validate:"required,uuid4"`
	UserID   string `json:"user_id" validate:"required,uuid4"`
	Nickname string `json:"nickname" validate:"max=64"`
}

// GroupHandler is used to handle routes regarding groups.
// These include group creation, renaming, nickname handling and member
// insertion and removal.
type GroupHandler struct {
	groupService service.GroupService
	logger       *zap.SugaredLogger
}

func NewGroupHandler(groupService service.GroupService, logger *zap.SugaredLogger) *GroupHandler {
	return &GroupHandler{groupService: groupService, logger: logger}
}

// Lists the groups the caller is in, for the sidebar
func (g *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	if requested := r.URL.Query().Get("user"); requested != "" && requested != user.UUID {
		respondError(w, fmt.Errorf("can only list your own groups: %w", apperr.ErrForbidden))
		return
	}

	groups, err := g.groupService.ListGroupsFor(r.Context(), user.UUID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// Creates a group
func (g *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	group, err := g.groupService.CreateGroup(r.Context(), user.UUID, req.Name, req.Members)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

// Adds a user to a group
func (g *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := g.groupService.AddMember(r.Context(), user.UUID, req.GroupID, req.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Removes a user from a group
func (g *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := g.groupService.RemoveMember(r.Context(), user.UUID, req.GroupID, req.UserID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Renames a group
func (g *GroupHandler) RenameGroup(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req renameGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := g.groupService.Rename(r.Context(), user.UUID, req.GroupID, req.NewName); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sets a member's nickname inside a group
func (g *GroupHandler) SetNickname(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	var req nicknameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := g.groupService.SetNickname(r.Context(), user.UUID, req.GroupID, req.UserID, req.Nickname); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Retrieves the membership records of a specific group
func (g *GroupHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	groupUUID := mux.Vars(r)["uuid"]

	members, err := g.groupService.GetMembers(r.Context(), user.UUID, groupUUID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}
