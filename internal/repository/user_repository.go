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
)

// This repository is used to manipulate the users in the system.
// Users are only ever soft-deleted, so sender identifiers in old messages
// keep resolving.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error // Inserts a user together with its secret record

	GetForLogin(ctx context.Context, username string) (*entity.User, error) // Retrieves the user with its hashed password, hence, used for login
	GetByUUID(ctx context.Context, uuid string) (*entity.User, error)       // Retrieves the user with the given uuid
	GetAll(ctx context.Context) ([]*entity.User, error)                     // Retrieves all the users, WITHOUT their secret

	SoftDelete(ctx context.Context, uuid string) error // Marks the user deleted, the record remains
}

// Implementation of the repository using a SQLite DB
type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(ctx context.Context, user *entity.User) error {
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
}

func (repo *SQLiteUserRepository) GetForLogin(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := repo.db.WithContext(ctx).Preload("Secret").Where("username = ?", username).First(&user).Error
	return &user, err
}

func (repo *SQLiteUserRepository) GetByUUID(ctx context.Context, uuid string) (*entity.User, error) {
	var user entity.User
	err := repo.db.WithContext(ctx).Where("UUID = ?", uuid).First(&user).Error
	return &user, err
}

func (repo *SQLiteUserRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.WithContext(ctx).Find(&users).Error
	return users, err
}

func (repo *SQLiteUserRepository) SoftDelete(ctx context.Context, uuid string) error {
	return repo.db.WithContext(ctx).Where("UUID = ?", uuid).Delete(&entity.User{}).Error
}
