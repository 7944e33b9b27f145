package gateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/naviai/smsgate/internal/domain"
)

// Dispatcher fans one message text out to a list of recipients. It returns
// the number of sends attempted; individual provider errors are its own
// concern and never surface here.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipients []string, text string) int
}

// Config holds the pipeline's policy knobs.
type Config struct {
	// Brand is the name prepended to every outbound message as
	// "[<Brand>] ".
	Brand string

	// AllowedPrefixes is the accepted recipient-number prefix policy.
	AllowedPrefixes []string
}

// Gateway runs the validation-authorization-dispatch pipeline. It holds no
// per-invocation state; a single Gateway serves all requests.
type Gateway struct {
	cfg        Config
	store      domain.ProfileStore
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New creates a Gateway with the given collaborators.
func New(cfg Config, store domain.ProfileStore, dispatcher Dispatcher, logger *slog.Logger) *Gateway {
	return &Gateway{
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "gateway")),
	}
}

// Send runs one invocation of the pipeline and returns its terminal
// outcome. sourceIP is the caller's address as supplied by the trigger
// metadata; it is never read from the request body. Stages short-circuit:
// the profile store is not contacted for an invalid request, and nothing is
// dispatched unless validation, authorization, and recipient selection all
// pass.
func (g *Gateway) Send(ctx context.Context, req domain.SendRequest, sourceIP string) domain.Outcome {
	log := g.logger.With(slog.String("user_id", req.UserID))

	if v := Validate(req, g.cfg.AllowedPrefixes); v != nil {
		// The detail (including any offending phone number) stays in
		// the operator log; the client sees only the opaque body.
		log.WarnContext(ctx, "validation failed",
			slog.String("outcome", v.Outcome.String()),
			slog.String("detail", v.Detail),
		)
		return v.Outcome
	}

	profile, err := g.store.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.WarnContext(ctx, "no profile for user")
			return domain.OutcomeUserNotFound
		}
		log.ErrorContext(ctx, "profile lookup failed",
			slog.String("error", err.Error()),
		)
		return domain.OutcomeInternalFault
	}

	source, err := parseSourceIP(sourceIP)
	if err != nil {
		log.ErrorContext(ctx, "unparseable source ip from trigger",
			slog.String("error", err.Error()),
		)
		return domain.OutcomeInternalFault
	}

	ok, err := Authorized(source, profile.AllowedIPs)
	if err != nil {
		log.ErrorContext(ctx, "allow list check failed",
			slog.String("error", err.Error()),
		)
		return domain.OutcomeInternalFault
	}
	if !ok {
		log.WarnContext(ctx, "source ip not authorized",
			slog.String("source_ip", source.String()),
		)
		return domain.OutcomeUnauthorizedSource
	}

	recipients := selectRecipients(req.PhoneNumbers, profile.PhoneNumbers)
	if len(recipients) == 0 {
		log.WarnContext(ctx, "no recipients to send to")
		return domain.OutcomeNoRecipients
	}

	text := "[" + g.cfg.Brand + "] " + req.Message
	attempted := g.dispatcher.Dispatch(ctx, recipients, text)

	log.InfoContext(ctx, "message dispatched",
		slog.Int("recipients", len(recipients)),
		slog.Int("attempted", attempted),
	)
	return domain.OutcomeSuccess
}
