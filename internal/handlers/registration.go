package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/apierror"
	"github.com/magnetic-studio/studio-api/internal/enrollment"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

type RegistrationHandler struct {
	enrollment *enrollment.Service
	logger     *zap.Logger
}

func NewRegistrationHandler(service *enrollment.Service, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{enrollment: service, logger: logger}
}

type InvitationPath struct {
	InvitationID string `path:"invitationID" doc:"Invitation the registration link was issued for"`
}

type InvitationStatusResponse struct {
	Body struct {
		ID        string    `json:"id"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

type RegistrationRequest struct {
	InvitationPath
	Body validation.Raw
}

type RegistrationResponse struct {
	Body struct {
		ID      uint   `json:"id"`
		Message string `json:"message"`
	}
}

func (h *RegistrationHandler) HandleInvitation(ctx context.Context, input *InvitationPath) (*InvitationStatusResponse, error) {
	invitation, err := h.enrollment.Invitation(ctx, input.InvitationID)
	if err != nil {
		return nil, invitationError(err)
	}

	res := &InvitationStatusResponse{}
	res.Body.ID = invitation.ID
	res.Body.ExpiresAt = invitation.ExpiresAt
	return res, nil
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	registration, err := h.enrollment.Register(ctx, input.InvitationID, input.Body)
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, apierror.FromValidation(err)
		}
		return nil, invitationError(err)
	}

	res := &RegistrationResponse{}
	res.Body.ID = registration.ID
	res.Body.Message = "Registration processed successfully"
	return res, nil
}

func invitationError(err error) error {
	switch {
	case errors.Is(err, enrollment.ErrInvitationNotFound):
		return huma.Error404NotFound("Invitation not found")
	case errors.Is(err, enrollment.ErrInvitationUnavailable):
		return huma.Error410Gone("Invitation is no longer valid")
	default:
		return huma.Error500InternalServerError("Failed to process registration")
	}
}
