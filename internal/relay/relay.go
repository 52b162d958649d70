// Package relay forwards a user's message to the webhook and turns whatever
// the webhook answers into one reply string.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"formchat/internal/webhook"
)

const (
	defaultMaxMessage = 2000

	// FailureReply is what the browser sees whenever Relay fails.
	FailureReply = "Hubo un error al procesar tu solicitud."
)

type Sender interface {
	Send(ctx context.Context, user, message string) ([]byte, error)
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

// Service is stateless apart from its configuration; every call carries the
// caller's session identifier.
type Service struct {
	webhook       Sender
	maxMessageLen int
	log           *slog.Logger
}

func NewService(w Sender, maxMessageLen int, log *slog.Logger) (*Service, error) {
	if w == nil {
		return nil, errors.New("relay: webhook sender must not be nil")
	}
	if maxMessageLen <= 0 {
		maxMessageLen = defaultMaxMessage
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{webhook: w, maxMessageLen: maxMessageLen, log: log}, nil
}

// Relay sends message under sessionID and returns the normalized bot reply.
func (s *Service) Relay(ctx context.Context, sessionID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", newError(ErrorInvalidInput, "empty_message", nil)
	}
	if utf8.RuneCountInString(message) > s.maxMessageLen {
		return "", newError(ErrorInvalidInput, "message_too_long", nil)
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", newError(ErrorInvalidInput, "missing_session", nil)
	}

	raw, err := s.webhook.Send(ctx, sessionID, message)
	if err != nil {
		var timeoutErr interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeoutErr) && timeoutErr.Timeout()) {
			return "", newError(ErrorTimeout, "webhook_timeout", err)
		}
		var statusErr httpStatusCoder
		if errors.As(err, &statusErr) {
			s.log.Warn("webhook returned error status", "session", sessionID, "status", statusErr.HTTPStatusCode())
			return "", newError(ErrorUpstream, "webhook_status", err)
		}
		return "", newError(ErrorUpstream, "webhook_error", err)
	}

	reply, key, err := webhook.Normalize(raw)
	if err != nil {
		return "", newError(ErrorUpstream, "webhook_malformed_reply", err)
	}
	if key == "" {
		s.log.Info("webhook reply had no known text field", "session", sessionID, "bytes", len(raw))
	} else {
		s.log.Debug("webhook reply normalized", "session", sessionID, "key", key)
	}
	return reply, nil
}

// NewSessionID returns a fresh identifier for one browser session.
func NewSessionID() string {
	return "usuario-" + uuid.NewString()
}
