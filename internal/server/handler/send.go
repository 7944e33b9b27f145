package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/naviai/smsgate/internal/config"
	"github.com/naviai/smsgate/internal/domain"
)

// SendGateway defines what the send handler requires from the pipeline.
type SendGateway interface {
	Send(ctx context.Context, req domain.SendRequest, sourceIP string) domain.Outcome
}

// SendHandler serves the message-send trigger endpoint.
type SendHandler struct {
	gateway            SendGateway
	responses          config.ResponsesConfig
	trustedProxyHeader string
	logger             *slog.Logger
}

// NewSendHandler creates a SendHandler. trustedProxyHeader optionally names
// the header carrying the caller's source IP when running behind a trusted
// proxy; when empty, the connection's remote address is used.
func NewSendHandler(gateway SendGateway, responses config.ResponsesConfig, trustedProxyHeader string, logger *slog.Logger) *SendHandler {
	return &SendHandler{
		gateway:            gateway,
		responses:          responses,
		trustedProxyHeader: trustedProxyHeader,
		logger:             logger,
	}
}

// Send runs one gateway invocation from a JSON request body.
// POST /v1/messages
func (h *SendHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A body that does not parse gets the same opaque answer as a
		// body with a malformed user_id; nothing about the parse error
		// leaves the operator log.
		h.logger.WarnContext(r.Context(), "handler: undecodable request body",
			slog.String("error", err.Error()),
		)
		h.writeOutcome(w, domain.OutcomeInvalidUserID)
		return
	}

	outcome := h.gateway.Send(r.Context(), req, h.sourceIP(r))
	h.writeOutcome(w, outcome)
}

// writeOutcome maps the outcome to its status code and configured body.
func (h *SendHandler) writeOutcome(w http.ResponseWriter, o domain.Outcome) {
	writeMessage(w, o.StatusCode(), h.responses.For(o))
}

// sourceIP extracts the caller's address from trigger metadata: the trusted
// proxy header when configured (first hop of a comma-separated list),
// otherwise the connection's remote address. Request body values are never
// consulted.
func (h *SendHandler) sourceIP(r *http.Request) string {
	if h.trustedProxyHeader != "" {
		if v := r.Header.Get(h.trustedProxyHeader); v != "" {
			first, _, _ := strings.Cut(v, ",")
			return strings.TrimSpace(first)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port; hand it to the pipeline as-is.
		return r.RemoteAddr
	}
	return host
}
