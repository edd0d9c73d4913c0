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
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Extensions a client may attach to a message. Anything else is refused
// before a single byte reaches the store.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".doc":  {},
	".docx": {},
}

// Service that validates and persists file uploads as message payloads.
// The checks here are authoritative; whatever the client claims to have
// validated is only a hint.
type AttachmentService interface {
	Accept(ctx context.Context, declaredName string, declaredSize int64, payload io.Reader) (*entity.Attachment, error) // Validates and stores an upload, returning the reference to attach to a message
	Discard(attachment *entity.Attachment)                                                                              // Removes a stored payload whose message never made it
	Open(attachment *entity.Attachment) (io.ReadCloser, error)                                                          // Opens a stored payload for download
}

type attachmentService struct {
	store    *storage.FileStore // Durable home of the payload bytes
	logger   *zap.SugaredLogger
	maxBytes int64 // Upper bound on the payload size
}

func NewAttachmentService(store *storage.FileStore, logger *zap.SugaredLogger, maxBytes int64) AttachmentService {
	return &attachmentService{
		store:    store,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

func (a *attachmentService) Accept(ctx context.Context, declaredName string, declaredSize int64, payload io.Reader) (*entity.Attachment, error) {
	if declaredName == "" {
		return nil, fmt.Errorf("attachment needs a file name: %w", apperr.ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(declaredName))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("extension %q is not allowed: %w", ext, apperr.ErrUnsupportedMedia)
	}
	if declaredSize > a.maxBytes {
		return nil, fmt.Errorf("declared size %d exceeds the limit: %w", declaredSize, apperr.ErrPayloadTooLarge)
	}

	// The declared size is advisory; the actual byte count is what gets
	// enforced. One extra byte on the limited reader tells apart "exactly
	// at the limit" from "over it".
	data, err := io.ReadAll(io.LimitReader(payload, a.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > a.maxBytes {
		return nil, fmt.Errorf("payload exceeds the limit: %w", apperr.ErrPayloadTooLarge)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("attachment is empty: %w", apperr.ErrInvalidInput)
	}

	contentType := mimetype.Detect(data).String()

	path, err := a.store.Save(declaredName, data)
	if err != nil {
		a.logger.Errorw("attachment store failed", "name", declaredName, "err", err)
		return nil, fmt.Errorf("storing attachment: %w", apperr.ErrStorageUnavailable)
	}
	a.logger.Debugw("attachment stored", "name", declaredName, "bytes", len(data), "type", contentType)

	return &entity.Attachment{
		StoragePath:  path,
		OriginalName: declaredName,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
	}, nil
}

func (a *attachmentService) Discard(attachment *entity.Attachment) {
	if attachment == nil {
		return
	}
	if err := a.store.Remove(attachment.StoragePath); err != nil {
		a.logger.Warnw("orphan attachment not removed", "path", attachment.StoragePath, "err", err)
	}
}

func (a *attachmentService) Open(attachment *entity.Attachment) (io.ReadCloser, error) {
	reader, err := a.store.Open(attachment.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("opening attachment: %w", apperr.ErrStorageUnavailable)
	}
	return reader, nil
}
