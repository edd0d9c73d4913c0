/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, "intercom.db", cfg.DBPath)
	require.Equal(t, "uploads", cfg.UploadDir)
	require.Equal(t, int64(52428800), cfg.MaxAttachmentBytes)
	require.Equal(t, int64(10080), cfg.TokenTTLMinutes)
	require.False(t, cfg.Development)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INTERCOM_HTTP_ADDR", ":9999")
	t.Setenv("INTERCOM_MAX_ATTACHMENT_BYTES", "1024")
	t.Setenv("INTERCOM_DEV_LOGGING", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.Equal(t, int64(1024), cfg.MaxAttachmentBytes)
	require.True(t, cfg.Development)
}

func TestLoadRejectsMalformedValue(t *testing.T) {
	t.Setenv("INTERCOM_MAX_ATTACHMENT_BYTES", "plenty")

	_, err := Load()
	require.Error(t, err)
}
