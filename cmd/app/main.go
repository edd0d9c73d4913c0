/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intercom/internal/config"
	"intercom/internal/handler"
	"intercom/internal/middleware"
	"intercom/internal/repository"
	"intercom/internal/service"
	"intercom/internal/storage"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var base *zap.Logger
	if cfg.Development {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer base.Sync()
	logger := base.Sugar()

	db, err := repository.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalw("database open failed", "path", cfg.DBPath, "err", err)
	}

	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatalw("upload directory unavailable", "dir", cfg.UploadDir, "err", err)
	}

	storageTimeout := time.Duration(cfg.StorageTimeout) * time.Second

	userRepo := repository.NewSQLiteUserRepository(db)
	groupRepo := repository.NewSQLiteGroupRepository(db)
	messageRepo := repository.NewSQLiteMessageRepository(db)

	authService := service.NewAuthService(userRepo, logger, storageTimeout)
	groupService := service.NewGroupService(groupRepo, userRepo, logger, storageTimeout)
	messageService := service.NewMessageService(messageRepo, groupRepo, userRepo, logger, storageTimeout)
	attachmentService := service.NewAttachmentService(fileStore, logger, cfg.MaxAttachmentBytes)

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	identity := middleware.NewIdentity(cookieStore, []byte(cfg.TokenSecret))
	authHandler := handler.NewAuthHandler(authService, cookieStore, logger, []byte(cfg.TokenSecret), time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	userHandler := handler.NewUserHandler(userRepo, logger)
	groupHandler := handler.NewGroupHandler(groupService, logger)
	messageHandler := handler.NewMessageHandler(messageService, attachmentService, logger, cfg.MaxAttachmentBytes)

	router := handler.NewRouter(identity, authHandler, userHandler, groupHandler, messageHandler)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Infow("received stop signal, shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("shutdown error", "err", err)
		}
	}()

	logger.Infow("http server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatalw("http server error", "err", err)
	}
}
