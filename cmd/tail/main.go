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
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"intercom/internal/entity"
	"intercom/internal/poll"

	"go.uber.org/zap"
)

// httpFetcher reads a conversation feed over the server's wire contract,
// authenticating with a bearer token.
type httpFetcher struct {
	client  *http.Client
	baseURL string
	token   string
}

func (f *httpFetcher) Fetch(ctx context.Context, conversation string, sinceSeq uint64) ([]*entity.Message, error) {
	query := url.Values{}
	query.Set("conversation", conversation)
	query.Set("since", strconv.FormatUint(sinceSeq, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/messages?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server replied %d: %s", resp.StatusCode, body)
	}

	var messages []*entity.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	tokenFlag := flag.String("token", "", "bearer token from /login (or INTERCOM_TOKEN)")
	conversation := flag.String("conversation", "", "group uuid, peer user uuid, or explicit chat id")
	since := flag.Uint64("since", 0, "last message id already seen, 0 for full history")
	interval := flag.Duration("interval", 3*time.Second, "polling interval")
	flag.Parse()

	token := *tokenFlag
	if token == "" {
		token = os.Getenv("INTERCOM_TOKEN")
	}
	if token == "" || *conversation == "" {
		fmt.Fprintln(os.Stderr, "both -token and -conversation are required")
		flag.Usage()
		os.Exit(2)
	}

	base, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer base.Sync()
	logger := base.Sugar()

	fetcher := &httpFetcher{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: *addr,
		token:   token,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := make(chan *entity.Message, 16)
	poller := poll.New(fetcher, *interval, logger)

	go func() {
		defer close(out)
		if err := poller.Run(ctx, *conversation, *since, out); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorw("polling stopped", "err", err)
		}
	}()

	for message := range out {
		line := fmt.Sprintf("[%s] #%d %s: %s",
			message.CreatedAt.Format(time.RFC3339), message.Seq, message.SenderUUID, message.Content)
		if message.Attachment != nil {
			line += fmt.Sprintf(" (attachment %q, %d bytes)", message.Attachment.OriginalName, message.Attachment.SizeBytes)
		}
		fmt.Println(line)
	}
}
