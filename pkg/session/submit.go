package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// StateForwarded is the success-but-continuing variant: the previous
// submission succeeded and its success notice stays visible while the
// controls of the forwarded-to form render.
const StateForwarded State = "forwarded"

const (
	msgSubmitFailed        = "Failed to submit form"
	msgAccessDeniedRefresh = "Access denied even after refreshing credentials"
	msgValidationSummary   = "Please correct the highlighted fields before submitting"
)

// Submit runs validate → submit → outcome. At most one submission is in
// flight; a second call while submitting is a no-op returning the current
// state. Validation failure keeps the machine in Idle without touching the
// network. A 403 with a token provider configured triggers exactly one
// refresh and one retry. The returned error is non-nil only for submission
// failures; the machine has already recorded them, so callers may ignore it.
func (s *Session) Submit(ctx context.Context) (State, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return s.State(), nil
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	if s.state == StateSuccess {
		// Terminal: the controls are hidden, nothing left to submit.
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	if !s.validateLocked() {
		s.state = StateIdle
		s.notice = &Notice{Kind: NoticeValidation, Header: msgValidationSummary}
		s.mu.Unlock()
		return StateIdle, nil
	}

	s.state = StateSubmitting
	s.notice = nil
	env := s.envelopeLocked()
	s.mu.Unlock()

	result, err := s.deliver(ctx, env)
	if err != nil {
		return s.fail(err), err
	}

	s.emitSuccess(env)

	if result.NextForm == "" {
		s.mu.Lock()
		s.state = StateSuccess
		s.notice = &Notice{
			Kind:     NoticeSuccess,
			Header:   result.MessageHeader,
			Messages: result.Messages,
		}
		s.mu.Unlock()
		return StateSuccess, nil
	}

	if err := s.forward(ctx, result); err != nil {
		return s.fail(err), err
	}
	return StateForwarded, nil
}

// deliver performs the collector call plus the bounded 403 recovery path.
func (s *Session) deliver(ctx context.Context, env Envelope) (Result, error) {
	if s.collector == nil {
		return Result{}, errors.New("session: collector is required")
	}

	token, err := s.fetchToken(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("session: fetch token: %w", err)
	}

	result, err := s.collector.Submit(ctx, env, token)
	if err == nil || !IsAccessDenied(err) {
		return result, err
	}

	if s.tokens == nil {
		// No refresh capability: a 403 is just a failed submission.
		return Result{}, err
	}

	refreshed, refreshErr := s.tokens.Refresh(ctx)
	if refreshErr != nil {
		return Result{}, errors.New(msgAccessDeniedRefresh)
	}

	result, err = s.collector.Submit(ctx, env, refreshed)
	if err != nil && IsAccessDenied(err) {
		return Result{}, errors.New(msgAccessDeniedRefresh)
	}
	return result, err
}

// forward loads the next form named by the directive and replaces the
// session wholesale.
func (s *Session) forward(ctx context.Context, result Result) error {
	if s.schemas == nil {
		return fmt.Errorf("session: forward to %q: no schema source configured", result.NextForm)
	}

	next, err := Load(ctx, result.NextForm, s.schemas, s.priors)
	if err != nil {
		return fmt.Errorf("session: forward to %q: %w", result.NextForm, err)
	}

	s.mu.Lock()
	s.replaceLocked(result.NextForm, next.doc, next.answers)
	s.state = StateForwarded
	s.notice = &Notice{
		Kind:     NoticeSuccess,
		Header:   result.MessageHeader,
		Messages: result.Messages,
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) fail(err error) State {
	notice := &Notice{Kind: NoticeError, Header: msgSubmitFailed}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.MessageHeader != "" {
			notice.Header = statusErr.MessageHeader
		}
		notice.Messages = statusErr.Messages
	} else if err != nil && err.Error() == msgAccessDeniedRefresh {
		notice.Header = msgAccessDeniedRefresh
	}

	s.mu.Lock()
	s.state = StateError
	s.notice = notice
	s.mu.Unlock()

	if s.events.OnSubmitError != nil {
		s.events.OnSubmitError(err)
	}
	return StateError
}

func (s *Session) emitSuccess(env Envelope) {
	if s.events.OnSubmitSuccess != nil {
		s.events.OnSubmitSuccess(env)
	}
}

func (s *Session) fetchToken(ctx context.Context) (string, error) {
	if s.tokens == nil {
		return "", nil
	}
	return s.tokens.Token(ctx)
}

// envelopeLocked builds the submission payload from the current tuple.
func (s *Session) envelopeLocked() Envelope {
	username := s.defaultIdentity
	if ident, ok := s.tokens.(IdentityProvider); ok {
		if name := ident.Username(); name != "" {
			username = name
		}
	}
	return Envelope{
		Username:    username,
		FormName:    s.formName,
		FormVersion: s.doc.Version,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Answers:     s.answers,
	}
}
