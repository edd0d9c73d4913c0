/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists attachment payloads on the local filesystem, one file
// per attachment under a single directory. Only the path it hands out is
// recorded on the message; everything else about the file lives here.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &FileStore{dir: abs}, nil
}

// Save writes the payload under a fresh uuid-prefixed name and returns the
// stored path. The declared name only contributes its base name, so a
// crafted name cannot escape the upload directory.
func (s *FileStore) Save(declaredName string, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%s", uuid.New().String(), sanitize(declaredName))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Open returns a reader over a stored payload. Paths outside the upload
// directory are refused.
func (s *FileStore) Open(path string) (io.ReadCloser, error) {
	if !strings.HasPrefix(filepath.Clean(path), s.dir+string(filepath.Separator)) {
		return nil, fmt.Errorf("path %q is outside the upload directory", path)
	}
	return os.Open(path)
}

// Remove deletes a stored payload. Used to undo a save when the message
// insert that should own it fails.
func (s *FileStore) Remove(path string) error {
	if !strings.HasPrefix(filepath.Clean(path), s.dir+string(filepath.Separator)) {
		return fmt.Errorf("path %q is outside the upload directory", path)
	}
	return os.Remove(path)
}

func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "file"
	}
	return base
}
