package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/store"
)

// AdminHandler serves the basic-auth protected admin API. Authentication
// happens in the route gate, not here.
type AdminHandler struct {
	registrations *store.RegistrationStore
	invitations   *store.InvitationStore
	invitationTTL time.Duration
	logger        *zap.Logger
}

func NewAdminHandler(registrations *store.RegistrationStore, invitations *store.InvitationStore, invitationTTL time.Duration, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		registrations: registrations,
		invitations:   invitations,
		invitationTTL: invitationTTL,
		logger:        logger,
	}
}

type InvitationOutput struct {
	Body models.Invitation
}

type RegistrationsOutput struct {
	Body []models.Registration
}

type CountOutput struct {
	Body struct {
		Count int64 `json:"count"`
	}
}

func (h *AdminHandler) HandleCreateInvitation(ctx context.Context, input *struct{}) (*InvitationOutput, error) {
	invitation, err := h.invitations.Create(ctx, time.Now().Add(h.invitationTTL))
	if err != nil {
		h.logger.Error("Failed to create invitation", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to create invitation")
	}
	h.logger.Info("Invitation created", zap.String("invitation_id", invitation.ID), zap.Time("expires_at", invitation.ExpiresAt))
	return &InvitationOutput{Body: invitation}, nil
}

func (h *AdminHandler) HandleLatestInvitation(ctx context.Context, input *struct{}) (*InvitationOutput, error) {
	invitation, err := h.invitations.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("No invitations yet")
	}
	if err != nil {
		h.logger.Error("Failed to load latest invitation", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to load invitation")
	}
	return &InvitationOutput{Body: invitation}, nil
}

func (h *AdminHandler) HandleListRegistrations(ctx context.Context, input *struct{}) (*RegistrationsOutput, error) {
	registrations, err := h.registrations.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list registrations", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to list registrations")
	}
	return &RegistrationsOutput{Body: registrations}, nil
}

func (h *AdminHandler) HandleCountRegistrations(ctx context.Context, input *struct{}) (*CountOutput, error) {
	count, err := h.registrations.Count(ctx)
	if err != nil {
		h.logger.Error("Failed to count registrations", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to count registrations")
	}
	res := &CountOutput{}
	res.Body.Count = count
	return res, nil
}
