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

// Group entity for the chat system.
// A group keeps existing when its last member leaves; it only disappears through explicit deletion.
type Group struct {
	UUID      string         `gorm:"primaryKey" json:"uuid"`           // Unique identifier
	Name      string         `gorm:"not null;index" json:"name"`       // Name of the group chat, mutable by members
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"` // Time of creation
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                   // Time of soft deletion

	Members []Membership `gorm:"foreignKey:GroupUUID;references:UUID" json:"members,omitempty"` // Membership records of the group
}
