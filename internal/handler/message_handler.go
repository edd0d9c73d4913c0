/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type sendMessageRequest struct {
	SenderID    string `json:"sender_id" validate:"omitempty,uuid4"`
	RecipientID string `json:"recipient_id"`
	GroupID     string `json:"group_id"`
	MessageText string `json:"message_text"`
}

// MessageHandler is used to handle all message-related routes.
// Both private chat and group messages go through here, text and file
// attachments alike.
type MessageHandler struct {
	messageService    service.MessageService
	attachmentService service.AttachmentService
	logger            *zap.SugaredLogger
	maxUploadBytes    int64
}

func NewMessageHandler(messageService service.MessageService, attachmentService service.AttachmentService, logger *zap.SugaredLogger, maxUploadBytes int64) *MessageHandler {
	return &MessageHandler{
		messageService:    messageService,
		attachmentService: attachmentService,
		logger:            logger,
		maxUploadBytes:    maxUploadBytes,
	}
}

// GetMessages serves the polling read: the ordered feed of a conversation,
// optionally restricted to messages after the client's last seen id.
// It is free of side effects, clients may hit it on every tick.
func (m *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	ref := r.URL.Query().Get("conversation")
	since, err := sinceParam(r.URL.Query().Get("since"))
	if err != nil {
		respondError(w, err)
		return
	}

	messages, err := m.messageService.Fetch(r.Context(), user.UUID, ref, since)
	if err != nil {
		respondError(w, err)
		return
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	respondJSON(w, http.StatusOK, messages)
}

// CreateMessage appends a text message to a DM or group conversation.
func (m *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.SenderID != "" && req.SenderID != user.UUID {
		respondError(w, fmt.Errorf("sender does not match the verified identity: %w", apperr.ErrForbidden))
		return
	}

	ref, err := conversationRef(req.RecipientID, req.GroupID)
	if err != nil {
		respondError(w, err)
		return
	}

	message, err := m.messageService.Send(r.Context(), user.UUID, ref, req.MessageText, nil)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

// CreateAttachmentMessage appends a file message. The multipart body
// carries the file plus the same addressing fields as a text message.
func (m *MessageHandler) CreateAttachmentMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}

	// Headroom over the attachment cap for the multipart framing; the
	// authoritative size check happens on the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, m.maxUploadBytes+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, apperr.ErrPayloadTooLarge)
			return
		}
		respondError(w, fmt.Errorf("missing file field: %w", apperr.ErrInvalidInput))
		return
	}
	defer file.Close()

	if sender := r.FormValue("sender_id"); sender != "" && sender != user.UUID {
		respondError(w, fmt.Errorf("sender does not match the verified identity: %w", apperr.ErrForbidden))
		return
	}
	ref, err := conversationRef(r.FormValue("recipient_id"), r.FormValue("group_id"))
	if err != nil {
		respondError(w, err)
		return
	}

	attachment, err := m.attachmentService.Accept(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		respondError(w, err)
		return
	}

	message, err := m.messageService.Send(r.Context(), user.UUID, ref, r.FormValue("message_text"), attachment)
	if err != nil {
		// The payload is already on disk but its message never made it;
		// drop it so no orphan file survives a failed send.
		m.attachmentService.Discard(attachment)
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, message)
}

// DownloadAttachment streams a stored payload to a conversation participant.
func (m *MessageHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	user, ok := requestUser(w, r)
	if !ok {
		return
	}
	messageUUID := mux.Vars(r)["uuid"]

	message, err := m.messageService.GetMessage(r.Context(), user.UUID, messageUUID)
	if err != nil {
		respondError(w, err)
		return
	}
	if message.Attachment == nil {
		respondError(w, fmt.Errorf("message has no attachment: %w", apperr.ErrNotFound))
		return
	}

	reader, err := m.attachmentService.Open(message.Attachment)
	if err != nil {
		respondError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", message.Attachment.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(message.Attachment.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", message.Attachment.OriginalName))
	if _, err := io.Copy(w, reader); err != nil {
		m.logger.Warnw("attachment stream interrupted", "message", messageUUID, "err", err)
	}
}

func sinceParam(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	since, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("since must be a message id: %w", apperr.ErrInvalidInput)
	}
	return since, nil
}
