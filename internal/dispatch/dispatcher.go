// Package dispatch fans a composed message out to the final recipient list
// through the external SMS provider.
package dispatch

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/naviai/smsgate/internal/domain"
)

// Dispatcher sends one independent provider call per recipient. Sends are
// fire-and-forget: a provider error on one recipient is logged and does not
// stop the remaining sends or change the invocation's outcome. All sends
// are awaited before Dispatch returns, since the invocation result goes
// back to the trigger synchronously.
type Dispatcher struct {
	sender domain.SMSSender
	logger *slog.Logger
}

// New creates a Dispatcher backed by the given sender.
func New(sender domain.SMSSender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		logger: logger.With(slog.String("component", "dispatch")),
	}
}

// Dispatch sends text to every recipient and returns the number of sends
// attempted (always len(recipients)). Sends run concurrently but are
// initiated in list order.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []string, text string) int {
	var g errgroup.Group

	for _, to := range recipients {
		to := to
		g.Go(func() error {
			if err := d.sender.Send(ctx, to, text); err != nil {
				// Log-only side channel: partial failure is
				// invisible to the pipeline's caller.
				d.logger.ErrorContext(ctx, "send failed",
					slog.String("recipient", to),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
	return len(recipients)
}
