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
	"errors"
	"fmt"
	"strings"
	"time"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service used to handle messages, both for DM and group chats.
// A conversation reference is either a group uuid, the uuid of the other
// user of a DM, or an explicit <uuid>:<uuid> DM pair.
type MessageService interface {
	Send(ctx context.Context, senderUUID, ref, content string, attachment *entity.Attachment) (*entity.Message, error) // Appends a message to the conversation
	Fetch(ctx context.Context, requesterUUID, ref string, sinceSeq uint64) ([]*entity.Message, error)                  // Retrieves the messages after sinceSeq, ascending and side-effect free
	GetMessage(ctx context.Context, requesterUUID, messageUUID string) (*entity.Message, error)                        // Retrieves one message the requester is allowed to see
}

type messageService struct {
	messageRepository repository.MessageRepository // Repository for messages
	groupRepository   repository.GroupRepository   // Repository for groups, used for participant checks
	userRepository    repository.UserRepository    // Repository for users, used to resolve DM peers
	logger            *zap.SugaredLogger
	timeout           time.Duration // Bound on every storage round trip
}

func NewMessageService(messages repository.MessageRepository, groups repository.GroupRepository, users repository.UserRepository, logger *zap.SugaredLogger, timeout time.Duration) MessageService {
	return &messageService{
		messageRepository: messages,
		groupRepository:   groups,
		userRepository:    users,
		logger:            logger,
		timeout:           timeout,
	}
}

func (m *messageService) Send(ctx context.Context, senderUUID, ref, content string, attachment *entity.Attachment) (*entity.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if content == "" && attachment == nil {
		return nil, fmt.Errorf("a message needs text or an attachment: %w", apperr.ErrInvalidInput)
	}

	chatID, err := m.resolve(ctx, senderUUID, ref)
	if err != nil {
		return nil, err
	}

	// Seq and CreatedAt are assigned by the store, under the chat's
	// sequence lock.
	message := &entity.Message{
		UUID:       uuid.New().String(),
		ChatID:     chatID,
		Content:    content,
		SenderUUID: senderUUID,
		Attachment: attachment,
	}
	if attachment != nil {
		attachment.MessageUUID = message.UUID
	}

	if err := m.messageRepository.Append(ctx, message); err != nil {
		m.logger.Errorw("message append failed", "chat", chatID, "err", err)
		return nil, fmt.Errorf("appending message: %w", apperr.FromStorage(err))
	}
	m.logger.Debugw("message appended", "chat", chatID, "seq", message.Seq)
	return message, nil
}

func (m *messageService) Fetch(ctx context.Context, requesterUUID, ref string, sinceSeq uint64) ([]*entity.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	chatID, err := m.resolve(ctx, requesterUUID, ref)
	if err != nil {
		return nil, err
	}

	messages, err := m.messageRepository.History(ctx, chatID, sinceSeq)
	if err != nil {
		m.logger.Errorw("history read failed", "chat", chatID, "err", err)
		return nil, fmt.Errorf("reading history: %w", apperr.FromStorage(err))
	}
	return messages, nil
}

func (m *messageService) GetMessage(ctx context.Context, requesterUUID, messageUUID string) (*entity.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message, err := m.messageRepository.GetByUUID(ctx, messageUUID)
	if err != nil {
		return nil, fmt.Errorf("loading message: %w", apperr.FromStorage(err))
	}
	if err := m.authorize(ctx, requesterUUID, message.ChatID); err != nil {
		return nil, err
	}
	return message, nil
}

// resolve turns a conversation reference into the canonical chat id,
// verifying on the way that the requester is a participant.
func (m *messageService) resolve(ctx context.Context, requesterUUID, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty conversation reference: %w", apperr.ErrInvalidInput)
	}

	if strings.Contains(ref, ":") {
		a, b, _ := strings.Cut(ref, ":")
		if requesterUUID != a && requesterUUID != b {
			return "", fmt.Errorf("requester is not part of this chat: %w", apperr.ErrForbidden)
		}
		other := a
		if other == requesterUUID {
			other = b
		}
		return m.resolveDM(ctx, requesterUUID, other)
	}

	group, err := m.groupRepository.GetByUUID(ctx, ref)
	switch {
	case err == nil:
		if !isMember(group.Members, requesterUUID) {
			return "", fmt.Errorf("requester is not in the group: %w", apperr.ErrForbidden)
		}
		return group.UUID, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("resolving group: %w", apperr.FromStorage(err))
	}

	return m.resolveDM(ctx, requesterUUID, ref)
}

func (m *messageService) resolveDM(ctx context.Context, requesterUUID, otherUUID string) (string, error) {
	if otherUUID == requesterUUID {
		return "", fmt.Errorf("cannot open a chat with yourself: %w", apperr.ErrInvalidInput)
	}
	if _, err := m.userRepository.GetByUUID(ctx, otherUUID); err != nil {
		return "", fmt.Errorf("resolving chat peer: %w", apperr.FromStorage(err))
	}
	return DMChatID(requesterUUID, otherUUID), nil
}

// authorize re-checks participation for an already canonical chat id.
func (m *messageService) authorize(ctx context.Context, requesterUUID, chatID string) error {
	if a, b, isDM := strings.Cut(chatID, ":"); isDM {
		if requesterUUID != a && requesterUUID != b {
			return fmt.Errorf("requester is not part of this chat: %w", apperr.ErrForbidden)
		}
		return nil
	}
	members, err := m.groupRepository.GetMembers(ctx, chatID)
	if err != nil {
		return fmt.Errorf("loading group members: %w", apperr.FromStorage(err))
	}
	for _, member := range members {
		if member.UserUUID == requesterUUID {
			return nil
		}
	}
	return fmt.Errorf("requester is not in the group: %w", apperr.ErrForbidden)
}

func isMember(members []entity.Membership, userUUID string) bool {
	for _, member := range members {
		if member.UserUUID == userUUID {
			return true
		}
	}
	return false
}

// DMChatID canonicalizes a pair of users into one chat id, so that the
// conversation between two users is the same regardless of who opens it.
func DMChatID(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}
