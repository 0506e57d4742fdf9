package usecase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"telegram-door-intercom/internal/domain"
	"telegram-door-intercom/internal/domain/ports/adapter"
	"telegram-door-intercom/internal/infra/logging"
	"telegram-door-intercom/internal/infra/metrics"
)

// Compile-time check
var _ IntercomUseCase = (*intercomUC)(nil)

// IntercomUseCase turns a button payload into a callback call.
type IntercomUseCase interface {
	// Dial resolves payload to an intent and requests one callback from the
	// internal number to the intent's destination. Unknown payloads return
	// domain.ErrUnknownIntent without touching the provider.
	Dial(ctx context.Context, payload string) (*DialResult, error)
}

// DialResult is the provider's raw answer for one dial.
type DialResult struct {
	Intent      domain.Intent
	Destination string
	StatusCode  int
	Body        string
}

// Accepted reports whether the provider answered 200.
func (r *DialResult) Accepted() bool { return r.StatusCode == http.StatusOK }

type intercomUC struct {
	dir    *domain.Directory
	dialer adapter.CallbackDialer
	log    *zerolog.Logger
	dev    bool
}

func NewIntercomUseCase(dir *domain.Directory, dialer adapter.CallbackDialer, logger *zerolog.Logger, dev bool) *intercomUC {
	return &intercomUC{dir: dir, dialer: dialer, log: logger, dev: dev}
}

func (u *intercomUC) Dial(ctx context.Context, payload string) (*DialResult, error) {
	defer logging.TraceDuration(u.log, "IntercomUC.Dial")()

	intent, err := domain.ParseIntent(payload)
	if err != nil {
		return nil, err
	}
	dest, err := u.dir.Destination(intent)
	if err != nil {
		return nil, err
	}

	log := logging.With(ctx, u.log)
	resp, err := u.dialer.RequestCallback(ctx, u.dir.Internal, dest)
	if err != nil {
		metrics.IncIntercomCall(intent.String(), metrics.OutcomeTransport)
		log.Error().Err(err).Str("intent", intent.String()).Msg("callback request failed")
		return nil, fmt.Errorf("dial %s: %w", intent, err)
	}

	res := &DialResult{
		Intent:      intent,
		Destination: dest,
		StatusCode:  resp.StatusCode,
		Body:        string(resp.Body),
	}
	outcome := metrics.OutcomeAccepted
	if !res.Accepted() {
		outcome = metrics.OutcomeRejected
	}
	metrics.IncIntercomCall(intent.String(), outcome)
	log.Info().
		Str("intent", intent.String()).
		Str("to", logging.Redact(dest, u.dev)).
		Int("status", res.StatusCode).
		Msg("callback requested")
	return res, nil
}
