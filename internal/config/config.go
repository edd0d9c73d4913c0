/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config collects every tunable of the server. Values come from the
// environment, optionally seeded from a .env file next to the binary.
type Config struct {
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`
	ReadTimeout  int64  `envconfig:"READ_TIMEOUT_SECONDS" default:"15"`
	WriteTimeout int64  `envconfig:"WRITE_TIMEOUT_SECONDS" default:"15"`

	DBPath string `envconfig:"DB_PATH" default:"intercom.db"`
	// STORAGE_TIMEOUT_SECONDS bounds every round trip to the database; a
	// call that exceeds it fails as unavailable instead of hanging the
	// request.
	StorageTimeout int64 `envconfig:"STORAGE_TIMEOUT_SECONDS" default:"5"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`
	// MAX_ATTACHMENT_BYTES defaults to 50 MiB.
	MaxAttachmentBytes int64 `envconfig:"MAX_ATTACHMENT_BYTES" default:"52428800"`

	SessionSecret   string `envconfig:"SESSION_SECRET" default:"dev-only-secret"`
	TokenSecret     string `envconfig:"TOKEN_SECRET" default:"dev-only-secret"`
	TokenTTLMinutes int64  `envconfig:"TOKEN_TTL_MINUTES" default:"10080"`

	Development bool `envconfig:"DEV_LOGGING" default:"false"`
}

// Load reads the configuration from the environment. A missing .env file
// is not an error, the environment alone is enough.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("INTERCOM", &cfg)
	return cfg, err
}
