/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"context"

	"intercom/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// This repository is used to manipulate the groups and membership records in
// the system. Membership rows carry the per-group nickname, so nickname
// updates are membership updates.
type GroupRepository interface {
	Create(ctx context.Context, group *entity.Group) error // Inserts a group together with its initial membership records

	GetByUUID(ctx context.Context, uuid string) (*entity.Group, error)              // Retrieves the group with the given uuid, members included
	GetMembers(ctx context.Context, uuid string) ([]*entity.Membership, error)      // Retrieves the membership records of the group
	GetForUser(ctx context.Context, userUUID string) ([]*entity.Group, error)       // Retrieves the groups the user is currently a member of, members included

	AddMember(ctx context.Context, membership *entity.Membership) (bool, error)             // Inserts a membership record; reports false when the user already was a member
	RemoveMember(ctx context.Context, groupUUID, userUUID string) (bool, error)             // Deletes a membership record; reports false when there was none
	Rename(ctx context.Context, uuid, name string) (bool, error)                            // Updates the group name; reports false when the group does not exist
	SetNickname(ctx context.Context, groupUUID, userUUID, nickname string) (bool, error)    // Updates the nickname on a membership record; reports false when there is none
}

// Implementation of the repository using a SQLite DB
type SQLiteGroupRepository struct {
	db *gorm.DB
}

func NewSQLiteGroupRepository(db *gorm.DB) GroupRepository {
	return &SQLiteGroupRepository{db}
}

func (repo *SQLiteGroupRepository) Create(ctx context.Context, group *entity.Group) error {
	// The membership rows are part of the group entity, so a single Create
	// persists the group and its initial member set atomically.
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(group).Error
	})
}

func (repo *SQLiteGroupRepository) GetByUUID(ctx context.Context, uuid string) (*entity.Group, error) {
	var group entity.Group
	err := repo.db.WithContext(ctx).Preload("Members").Where("UUID = ?", uuid).First(&group).Error
	return &group, err
}

func (repo *SQLiteGroupRepository) GetMembers(ctx context.Context, uuid string) ([]*entity.Membership, error) {
	var members []*entity.Membership
	err := repo.db.WithContext(ctx).Where("group_uuid = ?", uuid).Find(&members).Error
	return members, err
}

func (repo *SQLiteGroupRepository) GetForUser(ctx context.Context, userUUID string) ([]*entity.Group, error) {
	var groups []*entity.Group
	err := repo.db.WithContext(ctx).
		Preload("Members").
		Joins("JOIN memberships ON memberships.group_uuid = groups.uuid").
		Where("memberships.user_uuid = ?", userUUID).
		Find(&groups).Error
	return groups, err
}

func (repo *SQLiteGroupRepository) AddMember(ctx context.Context, membership *entity.Membership) (bool, error) {
	// ON CONFLICT DO NOTHING on the composite key makes the add idempotent:
	// re-adding an existing member is a no-op, not an error.
	res := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(membership)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *SQLiteGroupRepository) RemoveMember(ctx context.Context, groupUUID, userUUID string) (bool, error) {
	// The group record itself stays, even when this was the last member.
	res := repo.db.WithContext(ctx).
		Where("group_uuid = ? AND user_uuid = ?", groupUUID, userUUID).
		Delete(&entity.Membership{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *SQLiteGroupRepository) Rename(ctx context.Context, uuid, name string) (bool, error) {
	res := repo.db.WithContext(ctx).
		Model(&entity.Group{}).
		Where("UUID = ?", uuid).
		Update("name", name)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *SQLiteGroupRepository) SetNickname(ctx context.Context, groupUUID, userUUID, nickname string) (bool, error) {
	res := repo.db.WithContext(ctx).
		Model(&entity.Membership{}).
		Where("group_uuid = ? AND user_uuid = ?", groupUUID, userUUID).
		Update("nickname", nickname)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
