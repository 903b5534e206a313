// Package enrollment runs the public sign-up flows: invitation-based
// registration and the coming-soon waitlist.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/email"
	"github.com/magnetic-studio/studio-api/internal/metrics"
	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/notifier"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationUnavailable = errors.New("invitation is no longer valid")
	ErrAlreadyOnWaitlist     = errors.New("email already on the waitlist")
	ErrWaitlistFailed        = errors.New("waitlist unavailable")
)

// Messages shown to visitors for the waitlist errors.
const (
	MsgAlreadyOnWaitlist = "This email is already on the waitlist."
	MsgWaitlistFailed    = "Something went wrong. Please try again."
	MsgWaitlistJoined    = "You're on the list! We'll let you know when we open."
)

type Service struct {
	registrations *store.RegistrationStore
	invitations   *store.InvitationStore
	waitlist      *store.WaitlistStore
	mailer        *email.Mailer
	notifier      notifier.Notifier
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

type Deps struct {
	Registrations *store.RegistrationStore
	Invitations   *store.InvitationStore
	Waitlist      *store.WaitlistStore
	Mailer        *email.Mailer
	Notifier      notifier.Notifier
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

func NewService(deps Deps) *Service {
	n := deps.Notifier
	if n == nil {
		n = notifier.Nop{}
	}
	return &Service{
		registrations: deps.Registrations,
		invitations:   deps.Invitations,
		waitlist:      deps.Waitlist,
		mailer:        deps.Mailer,
		notifier:      n,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		now:           time.Now,
	}
}

// Invitation returns the invitation if it can still be used to register.
func (s *Service) Invitation(ctx context.Context, id string) (models.Invitation, error) {
	invitation, err := s.invitations.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Invitation{}, ErrInvitationNotFound
	}
	if err != nil {
		return models.Invitation{}, err
	}
	if !invitation.Usable(s.now()) {
		return models.Invitation{}, ErrInvitationUnavailable
	}
	return invitation, nil
}

// Register validates raw against the registration rules and stores it under
// the invitation. Validation failures come back as validation.FieldErrors.
// The confirmation email and the staff notification never fail the call.
func (s *Service) Register(ctx context.Context, invitationID string, raw validation.Raw) (models.Registration, error) {
	start := s.now()
	defer s.metrics.ObserveRegistration(start)

	invitation, err := s.Invitation(ctx, invitationID)
	if err != nil {
		return models.Registration{}, err
	}

	fields, err := validation.ValidateRegistration(raw, start)
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			s.metrics.RecordFieldErrors(fieldErrs.Paths())
		}
		return models.Registration{}, err
	}

	id, err := s.registrations.Create(ctx, invitation.ID, fields)
	if err != nil {
		s.logger.Error("Failed to store registration", zap.String("invitation_id", invitation.ID), zap.Error(err))
		return models.Registration{}, fmt.Errorf("store registration: %w", err)
	}
	s.metrics.RegistrationsCreated.Inc()

	registration := models.Registration{InvitationID: invitation.ID, RegistrationFields: fields}
	registration.ID = id

	s.logger.Info("Registration stored", zap.Uint("registration_id", id), zap.String("invitation_id", invitation.ID))
	s.afterRegistration(ctx, registration)
	return registration, nil
}

func (s *Service) afterRegistration(ctx context.Context, registration models.Registration) {
	if s.mailer != nil {
		err := s.mailer.SendRegistrationConfirmation(ctx, registration.Name, registration.Email)
		s.metrics.RecordEmail(err)
		if err != nil {
			s.logger.Warn("Confirmation email not sent", zap.Uint("registration_id", registration.ID), zap.Error(err))
		}
	}

	if err := s.notifier.NotifyRegistration(registration); err != nil {
		s.logger.Warn("Failed to notify registration", zap.Uint("registration_id", registration.ID), zap.Error(err))
	}
}

// JoinWaitlist adds the email to the waitlist once.
func (s *Service) JoinWaitlist(ctx context.Context, address string) (models.WaitlistEntry, error) {
	in, err := validation.ValidateWaitlist(validation.WaitlistInput{Email: address})
	if err != nil {
		return models.WaitlistEntry{}, err
	}

	exists, err := s.waitlist.Exists(ctx, in.Email)
	if err != nil {
		s.logger.Error("Failed to check waitlist", zap.Error(err))
		return models.WaitlistEntry{}, ErrWaitlistFailed
	}
	if exists {
		return models.WaitlistEntry{}, ErrAlreadyOnWaitlist
	}

	entry, err := s.waitlist.Add(ctx, in.Email)
	if errors.Is(err, store.ErrDuplicate) {
		return models.WaitlistEntry{}, ErrAlreadyOnWaitlist
	}
	if err != nil {
		s.logger.Error("Failed to join waitlist", zap.Error(err))
		return models.WaitlistEntry{}, ErrWaitlistFailed
	}
	s.metrics.WaitlistJoins.Inc()

	if err := s.notifier.NotifyWaitlist(entry); err != nil {
		s.logger.Warn("Failed to notify waitlist join", zap.Error(err))
	}
	return entry, nil
}
