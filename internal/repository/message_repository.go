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
	"errors"
	"time"

	"intercom/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// This repository is used to manipulate the messages in the system.
// Messages are append-only: there is no update or delete path.
type MessageRepository interface {
	Append(ctx context.Context, message *entity.Message) error                                 // Assigns the next sequence number of the chat and inserts the message
	History(ctx context.Context, chatID string, sinceSeq uint64) ([]*entity.Message, error)    // Retrieves the messages of the chat with sequence number greater than sinceSeq, ascending
	GetByUUID(ctx context.Context, uuid string) (*entity.Message, error)                       // Retrieves a single message with its attachment reference
}

// Implementation of the repository using a SQLite DB
type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Append(ctx context.Context, message *entity.Message) error {

	// The sequence row of the chat is the single serializing point for
	// writes to that chat. Locking it, incrementing it and inserting the
	// message in one transaction is what guarantees contiguous,
	// duplicate-free sequence numbers under concurrent senders.
	return repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq entity.ChatSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("chat_id = ?", message.ChatID).
			First(&seq).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			seq = entity.ChatSequence{ChatID: message.ChatID, LastSeq: 0}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		seq.LastSeq++
		if err := tx.Save(&seq).Error; err != nil {
			return err
		}

		message.Seq = seq.LastSeq
		// The timestamp is assigned under the same lock as the sequence
		// number, so created_at never decreases along seq order even when
		// senders race.
		message.CreatedAt = time.Now()
		// Creating the message also inserts its attachment row, if present,
		// inside the same transaction.
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return nil
	})
}

func (repo *SQLiteMessageRepository) History(ctx context.Context, chatID string, sinceSeq uint64) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.WithContext(ctx).
		Preload("Attachment").
		Where("chat_id = ? AND seq > ?", chatID, sinceSeq).
		Order("seq ASC").
		Find(&messages).Error
	return messages, err
}

func (repo *SQLiteMessageRepository) GetByUUID(ctx context.Context, uuid string) (*entity.Message, error) {
	var message entity.Message
	err := repo.db.WithContext(ctx).
		Preload("Attachment").
		Where("UUID = ?", uuid).
		First(&message).Error
	return &message, err
}
