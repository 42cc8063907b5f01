// Package poller drives the long-polling loop against the Bot API.
package poller

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/KulmamatovZalkar/newedges/internal/common/errors"
	"github.com/KulmamatovZalkar/newedges/internal/common/logger"
	"github.com/KulmamatovZalkar/newedges/internal/telegram"
)

// Source delivers batches of inbound updates.
type Source interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration, limit int) ([]telegram.Update, error)
}

// Handler consumes one update. A retryable error means the update was not
// durably processed and must be redelivered.
type Handler interface {
	HandleUpdate(ctx context.Context, update telegram.Update) error
}

type Poller struct {
	source  Source
	handler Handler
	logger  logger.Logger
	timeout time.Duration
	limit   int
}

func New(source Source, handler Handler, log logger.Logger, timeout time.Duration, limit int) *Poller {
	return &Poller{
		source:  source,
		handler: handler,
		logger:  log.WithFields(map[string]interface{}{"component": "poller"}),
		timeout: timeout,
		limit:   limit,
	}
}

// Run polls until the context is cancelled. Transport errors back off and
// retry. The offset acknowledges an update only once its handler finished
// without a retryable failure: a storage outage holds the offset in place
// and Telegram redelivers from the stuck update.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	backoff := time.Second

	for {
		updates, err := p.source.GetUpdates(ctx, offset, p.timeout, p.limit)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.WithError(err).Warn("getUpdates failed, backing off", map[string]interface{}{
				"backoff": backoff.String(),
			})
			if !p.sleep(ctx, &backoff) {
				return ctx.Err()
			}
			continue
		}
		backoff = time.Second

		stuck := false
		for _, update := range updates {
			if err := p.handler.HandleUpdate(ctx, update); err != nil && apperrors.IsRetryable(err) {
				p.logger.WithError(err).Warn("update not acknowledged, will redeliver", map[string]interface{}{
					"updateId": update.UpdateID,
				})
				stuck = true
				break
			}
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
		}
		if stuck {
			if !p.sleep(ctx, &backoff) {
				return ctx.Err()
			}
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (p *Poller) sleep(ctx context.Context, backoff *time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(*backoff):
	}
	if *backoff < 30*time.Second {
		*backoff *= 2
	}
	return true
}
