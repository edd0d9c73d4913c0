/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Membership ties a user to a group. At most one record exists per
// (group, user) pair, enforced by the composite primary key.
type Membership struct {
	GroupUUID string    `gorm:"primaryKey" json:"-"`            // UUID of the group
	UserUUID  string    `gorm:"primaryKey" json:"user"`         // UUID of the member
	Nickname  string    `json:"nickname,omitempty"`             // Per-group nickname, meaningless outside this group
	Admin     bool      `gorm:"default:false" json:"admin"`     // Set on the creator's record
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`      // Time the user entered the group
}
