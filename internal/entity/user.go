/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import (
	"time"

	"gorm.io/gorm"
)

// User is an account known to the system. Accounts are never hard-deleted,
// only soft-deleted, so message history keeps resolving sender identifiers.
type User struct {
	UUID        string         `gorm:"primaryKey" json:"uuid"`            // Unique identifier, immutable after signup
	Username    string         `gorm:"not null;uniqueIndex" json:"username"` // Login name, unique across the system
	DisplayName string         `json:"display_name"`                      // Name shown in chats, defaults to the username
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`  // Time of signup
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                    // Time of soft deletion

	Secret UserSecret `gorm:"foreignKey:UserUUID;references:UUID" json:"-"` // Credential record, loaded only for login
}
