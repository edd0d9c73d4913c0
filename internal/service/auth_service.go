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
	"time"

	"intercom/internal/apperr"
	"intercom/internal/entity"
	"intercom/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service used for the user registration and login phases.
// It is the in-process realization of the identity provider: everything
// downstream only ever sees the verified user it returns.
type AuthService interface {
	Register(ctx context.Context, username, displayName, password string) (*entity.User, error) // Tries to create a new user in the system, returning it if successful
	Login(ctx context.Context, username, password string) (*entity.User, error)                 // Tries to authenticate a user via its credentials, returning the user entity if successful
}

type authService struct {
	userRepository repository.UserRepository // Repository for users
	logger         *zap.SugaredLogger
	timeout        time.Duration // Bound on every storage round trip
}

func NewAuthService(users repository.UserRepository, logger *zap.SugaredLogger, timeout time.Duration) AuthService {
	return &authService{
		userRepository: users,
		logger:         logger,
		timeout:        timeout,
	}
}

func (a *authService) Register(ctx context.Context, username, displayName, password string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", apperr.ErrInvalidInput)
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id := uuid.New().String()
	user := &entity.User{
		UUID:        id,
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
		Secret: entity.UserSecret{
			UserUUID: id,
			Hash:     string(hash),
		},
	}

	if err := a.userRepository.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username %q is taken: %w", username, apperr.ErrInvalidInput)
		}
		a.logger.Errorw("user create failed", "username", username, "err", err)
		return nil, fmt.Errorf("creating user: %w", apperr.FromStorage(err))
	}
	a.logger.Infow("user registered", "user", user.UUID)
	return user, nil
}

func (a *authService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	user, err := a.userRepository.GetForLogin(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same failure as a wrong password, so a caller cannot probe
			// which usernames exist.
			return nil, fmt.Errorf("wrong credentials: %w", apperr.ErrUnauthorized)
		}
		return nil, fmt.Errorf("loading user: %w", apperr.FromStorage(err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Secret.Hash), []byte(password)); err != nil {
		return nil, fmt.Errorf("wrong credentials: %w", apperr.ErrUnauthorized)
	}
	return user, nil
}
