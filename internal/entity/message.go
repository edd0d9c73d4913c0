/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Represents a message sent between two users or in a group chat.
// Messages are immutable once created.
type Message struct {
	UUID    string `gorm:"primaryKey" json:"uuid"`                                      // Unique identifier
	ChatID  string `gorm:"not null;uniqueIndex:chat_seq_index,priority:1" json:"chat_id"` // Identifier of the chat. It's <user1-uuid>:<user2-uuid> for DMs and <group-uuid> for group messages.
	Seq     uint64 `gorm:"not null;uniqueIndex:chat_seq_index,priority:2" json:"id"`      // Position in the chat, strictly increasing with no gaps. Clients poll with their last seen value.
	Content string `json:"content"`                                                     // Actual content of the message. Empty only when an attachment is present.

	CreatedAt time.Time `gorm:"not null" json:"timestamp"` // Time of creation, assigned by the server

	SenderUUID string `gorm:"index" json:"sender"` // UUID of the user that sent the message

	Attachment *Attachment `gorm:"foreignKey:MessageUUID;references:UUID" json:"attachment,omitempty"` // File payload reference, if any
}
