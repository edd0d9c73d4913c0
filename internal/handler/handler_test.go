/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"intercom/internal/entity"
	"intercom/internal/middleware"
	"intercom/internal/repository"
	"intercom/internal/service"
	"intercom/internal/storage"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *mux.Router
}

type account struct {
	user  entity.User
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := repository.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	fileStore, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	timeout := 5 * time.Second
	secret := []byte("test-token-secret")

	users := repository.NewSQLiteUserRepository(db)
	groups := repository.NewSQLiteGroupRepository(db)
	messages := repository.NewSQLiteMessageRepository(db)

	authService := service.NewAuthService(users, logger, timeout)
	groupService := service.NewGroupService(groups, users, logger, timeout)
	messageService := service.NewMessageService(messages, groups, users, logger, timeout)
	attachmentService := service.NewAttachmentService(fileStore, logger, 1<<20)

	cookieStore := sessions.NewCookieStore([]byte("test-session-secret"))
	identity := middleware.NewIdentity(cookieStore, secret)

	router := NewRouter(
		identity,
		NewAuthHandler(authService, cookieStore, logger, secret, time.Hour),
		NewUserHandler(users, logger),
		NewGroupHandler(groupService, logger),
		NewMessageHandler(messageService, attachmentService, logger, 1<<20),
	)
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	return out
}

func (s *testServer) signup(t *testing.T, username string) account {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"password": "password-123",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = s.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": "password-123",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[struct {
		User  entity.User `json:"user"`
		Token string      `json:"token"`
	}](t, resp)
	require.NotEmpty(t, body.Token)
	return account{user: body.User, token: body.Token}
}

func (s *testServer) createGroup(t *testing.T, creator account, name string, memberUUIDs ...string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/groups", creator.token, map[string]any{
		"name":    name,
		"members": memberUUIDs,
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	return decodeBody[entity.Group](t, resp).UUID
}

func TestRegisterValidation(t *testing.T) {
	server := newTestServer(t)

	resp := server.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "ok-name",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = server.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "ab",
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	server := newTestServer(t)
	server.signup(t, "alice")

	resp := server.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice",
		"password": "password-456",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	server := newTestServer(t)
	server.signup(t, "alice")

	resp := server.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	server := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/messages?conversation=x"},
		{http.MethodPost, "/messages"},
		{http.MethodGet, "/groups"},
		{http.MethodGet, "/users"},
	} {
		resp := server.do(t, route.method, route.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s", route.method, route.path)
	}
}

func TestDirectMessageRoundTrip(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	resp := server.do(t, http.MethodPost, "/messages", alice.token, map[string]string{
		"recipient_id": bob.user.UUID,
		"message_text": "hello bob",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	sent := decodeBody[entity.Message](t, resp)
	require.Equal(t, uint64(1), sent.Seq)

	resp = server.do(t, http.MethodGet, "/messages?conversation="+alice.user.UUID, bob.token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	feed := decodeBody[[]entity.Message](t, resp)
	require.Len(t, feed, 1)
	require.Equal(t, "hello bob", feed[0].Content)
	require.Equal(t, alice.user.UUID, feed[0].SenderUUID)

	// Polling from the last seen id returns an empty page, not an error.
	resp = server.do(t, http.MethodGet, fmt.Sprintf("/messages?conversation=%s&since=%d", alice.user.UUID, sent.Seq), bob.token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Empty(t, decodeBody[[]entity.Message](t, resp))
	require.Contains(t, resp.Body.String(), "[]")
}

func TestSendRejectsMismatchedSender(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	resp := server.do(t, http.MethodPost, "/messages", alice.token, map[string]string{
		"sender_id":    bob.user.UUID,
		"recipient_id": bob.user.UUID,
		"message_text": "spoofed",
	})
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestSendRequiresExactlyOneDestination(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	resp := server.do(t, http.MethodPost, "/messages", alice.token, map[string]string{
		"message_text": "to nobody",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = server.do(t, http.MethodPost, "/messages", alice.token, map[string]string{
		"recipient_id": bob.user.UUID,
		"group_id":     bob.user.UUID,
		"message_text": "to both",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetMessagesRejectsBadSince(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")

	resp := server.do(t, http.MethodGet, "/messages?conversation=x&since=banana", alice.token, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGroupLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")
	eve := server.signup(t, "eve")

	groupUUID := server.createGroup(t, alice, "lab", bob.user.UUID)

	resp := server.do(t, http.MethodPost, "/messages", alice.token, map[string]string{
		"group_id":     groupUUID,
		"message_text": "welcome",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// A non-member can neither read nor post.
	resp = server.do(t, http.MethodGet, "/messages?conversation="+groupUUID, eve.token, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)
	resp = server.do(t, http.MethodPost, "/messages", eve.token, map[string]string{
		"group_id":     groupUUID,
		"message_text": "let me in",
	})
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = server.do(t, http.MethodPost, "/groups/members", bob.token, map[string]string{
		"group_id": groupUUID,
		"user_id":  eve.user.UUID,
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = server.do(t, http.MethodGet, "/messages?conversation="+groupUUID, eve.token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, decodeBody[[]entity.Message](t, resp), 1)

	resp = server.do(t, http.MethodGet, "/groups/"+groupUUID+"/members", alice.token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, decodeBody[[]entity.Membership](t, resp), 3)

	resp = server.do(t, http.MethodDelete, "/groups/members", alice.token, map[string]string{
		"group_id": groupUUID,
		"user_id":  eve.user.UUID,
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = server.do(t, http.MethodGet, "/messages?conversation="+groupUUID, eve.token, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRenameAndNicknameOverHTTP(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	groupUUID := server.createGroup(t, alice, "lab", bob.user.UUID)

	resp := server.do(t, http.MethodPost, "/groups/rename", bob.token, map[string]string{
		"group_id": groupUUID,
		"new_name": "lab v2",
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = server.do(t, http.MethodPost, "/groups/nickname", alice.token, map[string]string{
		"group_id": groupUUID,
		"user_id":  bob.user.UUID,
		"nickname": "the intern",
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = server.do(t, http.MethodGet, "/groups", bob.token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	summaries := decodeBody[[]service.GroupSummary](t, resp)
	require.Len(t, summaries, 1)
	require.Equal(t, "lab v2", summaries[0].Name)
	require.Equal(t, "the intern", summaries[0].Nickname)
}

func TestListGroupsForOtherUserForbidden(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	resp := server.do(t, http.MethodGet, "/groups?user="+bob.user.UUID, alice.token, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestListUsersDirectory(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	server.signup(t, "bob")

	resp := server.do(t, http.MethodGet, "/users", alice.token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, decodeBody[[]entity.User](t, resp), 2)
}

func (s *testServer) uploadAttachment(t *testing.T, sender account, field map[string]string, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range field {
		require.NoError(t, writer.WriteField(key, value))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/messages/attachment", &body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Authorization", "Bearer "+sender.token)

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

func TestAttachmentUploadAndDownload(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	payload := []byte("%PDF-1.4 tiny but honest")
	resp := server.uploadAttachment(t, alice, map[string]string{
		"recipient_id": bob.user.UUID,
		"message_text": "see attached",
	}, "report.pdf", payload)
	require.Equal(t, http.StatusCreated, resp.Code)

	sent := decodeBody[entity.Message](t, resp)
	require.NotNil(t, sent.Attachment)
	require.Equal(t, "report.pdf", sent.Attachment.OriginalName)
	require.Equal(t, int64(len(payload)), sent.Attachment.SizeBytes)

	download := server.do(t, http.MethodGet, "/files/"+sent.UUID, bob.token, nil)
	require.Equal(t, http.StatusOK, download.Code)
	require.Equal(t, payload, download.Body.Bytes())
	require.Contains(t, download.Header().Get("Content-Disposition"), "report.pdf")
}

func TestAttachmentRejectedExtension(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	resp := server.uploadAttachment(t, alice, map[string]string{
		"recipient_id": bob.user.UUID,
	}, "payload.exe", []byte("MZ"))
	require.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
}

func TestAttachmentDownloadGated(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")
	eve := server.signup(t, "eve")

	resp := server.uploadAttachment(t, alice, map[string]string{
		"recipient_id": bob.user.UUID,
	}, "secret.pdf", []byte("%PDF"))
	require.Equal(t, http.StatusCreated, resp.Code)
	sent := decodeBody[entity.Message](t, resp)

	download := server.do(t, http.MethodGet, "/files/"+sent.UUID, eve.token, nil)
	require.Equal(t, http.StatusForbidden, download.Code)
}

func TestDownloadTextMessageHasNoAttachment(t *testing.T) {
	server := newTestServer(t)
	alice := server.signup(t, "alice")
	bob := server.signup(t, "bob")

	resp := server.do(t, http.MethodPost, "/messages", alice.token, map[string]string{
		"recipient_id": bob.user.UUID,
		"message_text": "plain text",
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	sent := decodeBody[entity.Message](t, resp)

	download := server.do(t, http.MethodGet, "/files/"+sent.UUID, alice.token, nil)
	require.Equal(t, http.StatusNotFound, download.Code)
}

func TestLogout(t *testing.T) {
	server := newTestServer(t)
	server.signup(t, "alice")

	resp := server.do(t, http.MethodPost, "/logout", "", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)
}
