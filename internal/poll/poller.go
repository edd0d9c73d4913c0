/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package poll

import (
	"context"
	"time"

	"intercom/internal/entity"

	"go.uber.org/zap"
)

// Fetcher is the read side of a conversation: everything after a given
// message id, in ascending order. Reads are idempotent, so a failed tick
// is simply retried on the next one.
type Fetcher interface {
	Fetch(ctx context.Context, conversation string, sinceSeq uint64) ([]*entity.Message, error)
}

// Poller drives the client side of the delivery contract: a fixed-interval
// loop issuing cursor-based reads. Because the cursor only advances past
// delivered messages, each message comes out exactly once, and the loop
// dies with the context when the view goes away.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *zap.SugaredLogger
}

func New(fetcher Fetcher, interval time.Duration, logger *zap.SugaredLogger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
	}
}

// Run polls the conversation until ctx is cancelled, sending every new
// message to out in feed order. sinceSeq is the id of the last message the
// caller has already seen, zero for the full history.
func (p *Poller) Run(ctx context.Context, conversation string, sinceSeq uint64, out chan<- *entity.Message) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	cursor := sinceSeq
	for {
		messages, err := p.fetcher.Fetch(ctx, conversation, cursor)
		if err != nil {
			// Transient by contract; the next tick retries with the same
			// cursor, so nothing is skipped.
			p.logger.Warnw("poll tick failed", "conversation", conversation, "err", err)
		}
		for _, message := range messages {
			select {
			case out <- message:
				cursor = message.Seq
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
