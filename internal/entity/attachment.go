/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

// Attachment is the stored-file reference carried by a message.
// It is created in the same transaction as its message, so a message either
// has its attachment row or it has none at all.
type Attachment struct {
	MessageUUID  string `gorm:"primaryKey" json:"-"`          // UUID of the owning message
	StoragePath  string `gorm:"not null" json:"-"`            // Location of the payload on the storage backend, never exposed
	OriginalName string `gorm:"not null" json:"name"`         // Name the client declared at upload time
	ContentType  string `json:"content_type"`                 // MIME type detected from the payload bytes
	SizeBytes    int64  `gorm:"not null" json:"size_bytes"`   // Size of the stored payload
}
