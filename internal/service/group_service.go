/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"context"
	"fmt"
	"time"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GroupSummary is the sidebar view of a group for one user.
type GroupSummary struct {
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	Nickname    string `json:"nickname,omitempty"` // The user's own nickname in this group
}

// Service used to create groups and mutate their member sets.
// Every current member may mutate the group; the creator is only marked by
// the admin flag on its membership record.
type GroupService interface {
	CreateGroup(ctx context.Context, creatorUUID, name string, memberUUIDs []string) (*entity.Group, error) // Creates a group; the creator is a member even when absent from the list
	AddMember(ctx context.Context, actorUUID, groupUUID, userUUID string) error                             // Adds a user to the group; adding an existing member is a no-op
	RemoveMember(ctx context.Context, actorUUID, groupUUID, userUUID string) error                          // Removes a member; the group persists even when it ends up empty
	Rename(ctx context.Context, actorUUID, groupUUID, newName string) error                                 // Changes the group name
	SetNickname(ctx context.Context, actorUUID, groupUUID, userUUID, nickname string) error                 // Upserts the nickname on a membership record
	ListGroupsFor(ctx context.Context, userUUID string) ([]GroupSummary, error)                             // Lists the groups the user is in, for sidebar population
	GetMembers(ctx context.Context, actorUUID, groupUUID string) ([]*entity.Membership, error)              // Lists the membership records of a group the actor is in
}

type groupService struct {
	groupRepository repository.GroupRepository // Repository for groups and memberships
	userRepository  repository.UserRepository  // Repository for users, to verify members exist
	logger          *zap.SugaredLogger
	timeout         time.Duration // Bound on every storage round trip
}

func NewGroupService(groups repository.GroupRepository, users repository.UserRepository, logger *zap.SugaredLogger, timeout time.Duration) GroupService {
	return &groupService{
		groupRepository: groups,
		userRepository:  users,
		logger:          logger,
		timeout:         timeout,
	}
}

func (g *groupService) CreateGroup(ctx context.Context, creatorUUID, name string, memberUUIDs []string) (*entity.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if name == "" {
		return nil, fmt.Errorf("group name is empty: %w", apperr.ErrInvalidInput)
	}
	if len(memberUUIDs) == 0 {
		return nil, fmt.Errorf("group needs at least one member: %w", apperr.ErrInvalidInput)
	}

	now := time.Now()
	group := &entity.Group{
		UUID:      uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		Members: []entity.Membership{
			{UserUUID: creatorUUID, Admin: true, JoinedAt: now},
		},
	}
	for _, memberUUID := range memberUUIDs {
		if memberUUID == creatorUUID {
			continue
		}
		if _, err := g.userRepository.GetByUUID(ctx, memberUUID); err != nil {
			return nil, fmt.Errorf("resolving member %s: %w", memberUUID, apperr.FromStorage(err))
		}
		group.Members = append(group.Members, entity.Membership{UserUUID: memberUUID, JoinedAt: now})
	}

	if err := g.groupRepository.Create(ctx, group); err != nil {
		g.logger.Errorw("group create failed", "name", name, "err", err)
		return nil, fmt.Errorf("creating group: %w", apperr.FromStorage(err))
	}
	g.logger.Infow("group created", "group", group.UUID, "members", len(group.Members))
	return group, nil
}

func (g *groupService) AddMember(ctx context.Context, actorUUID, groupUUID, userUUID string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.requireMember(ctx, groupUUID, actorUUID); err != nil {
		return err
	}
	if _, err := g.userRepository.GetByUUID(ctx, userUUID); err != nil {
		return fmt.Errorf("resolving user to add: %w", apperr.FromStorage(err))
	}

	added, err := g.groupRepository.AddMember(ctx, &entity.Membership{
		GroupUUID: groupUUID,
		UserUUID:  userUUID,
		JoinedAt:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("adding member: %w", apperr.FromStorage(err))
	}
	if !added {
		g.logger.Debugw("member already present", "group", groupUUID, "user", userUUID)
	}
	return nil
}

func (g *groupService) RemoveMember(ctx context.Context, actorUUID, groupUUID, userUUID string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.requireMember(ctx, groupUUID, actorUUID); err != nil {
		return err
	}

	removed, err := g.groupRepository.RemoveMember(ctx, groupUUID, userUUID)
	if err != nil {
		return fmt.Errorf("removing member: %w", apperr.FromStorage(err))
	}
	if !removed {
		return fmt.Errorf("user %s is not a member: %w", userUUID, apperr.ErrNotFound)
	}
	return nil
}

func (g *groupService) Rename(ctx context.Context, actorUUID, groupUUID, newName string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if newName == "" {
		return fmt.Errorf("group name is empty: %w", apperr.ErrInvalidInput)
	}
	if err := g.requireMember(ctx, groupUUID, actorUUID); err != nil {
		return err
	}

	renamed, err := g.groupRepository.Rename(ctx, groupUUID, newName)
	if err != nil {
		return fmt.Errorf("renaming group: %w", apperr.FromStorage(err))
	}
	if !renamed {
		return fmt.Errorf("group %s does not exist: %w", groupUUID, apperr.ErrNotFound)
	}
	return nil
}

func (g *groupService) SetNickname(ctx context.Context, actorUUID, groupUUID, userUUID, nickname string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.requireMember(ctx, groupUUID, actorUUID); err != nil {
		return err
	}

	set, err := g.groupRepository.SetNickname(ctx, groupUUID, userUUID, nickname)
	if err != nil {
		return fmt.Errorf("setting nickname: %w", apperr.FromStorage(err))
	}
	if !set {
		return fmt.Errorf("user %s is not a member: %w", userUUID, apperr.ErrNotFound)
	}
	return nil
}

func (g *groupService) ListGroupsFor(ctx context.Context, userUUID string) ([]GroupSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	groups, err := g.groupRepository.GetForUser(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", apperr.FromStorage(err))
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, group := range groups {
		summary := GroupSummary{
			UUID:        group.UUID,
			Name:        group.Name,
			MemberCount: len(group.Members),
		}
		for _, member := range group.Members {
			if member.UserUUID == userUUID {
				summary.Nickname = member.Nickname
				break
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (g *groupService) GetMembers(ctx context.Context, actorUUID, groupUUID string) ([]*entity.Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.requireMember(ctx, groupUUID, actorUUID); err != nil {
		return nil, err
	}
	members, err := g.groupRepository.GetMembers(ctx, groupUUID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", apperr.FromStorage(err))
	}
	return members, nil
}

// requireMember fails with NotFound for a missing group and Forbidden for a
// caller that is not currently in it.
func (g *groupService) requireMember(ctx context.Context, groupUUID, userUUID string) error {
	group, err := g.groupRepository.GetByUUID(ctx, groupUUID)
	if err != nil {
		return fmt.Errorf("resolving group: %w", apperr.FromStorage(err))
	}
	if !isMember(group.Members, userUUID) {
		return fmt.Errorf("user is not in the group: %w", apperr.ErrForbidden)
	}
	return nil
}
