package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/magnetic-studio/studio-api/internal/apierror"
	"github.com/magnetic-studio/studio-api/internal/enrollment"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

type WaitlistHandler struct {
	enrollment *enrollment.Service
}

func NewWaitlistHandler(service *enrollment.Service) *WaitlistHandler {
	return &WaitlistHandler{enrollment: service}
}

type WaitlistRequest struct {
	Body validation.WaitlistInput
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func message(msg string) *MessageResponse {
	res := &MessageResponse{}
	res.Body.Message = msg
	return res
}

func (h *WaitlistHandler) HandleJoin(ctx context.Context, input *WaitlistRequest) (*MessageResponse, error) {
	_, err := h.enrollment.JoinWaitlist(ctx, input.Body.Email)
	switch {
	case err == nil:
		return message(enrollment.MsgWaitlistJoined), nil
	case errors.Is(err, enrollment.ErrAlreadyOnWaitlist):
		return nil, huma.Error409Conflict(enrollment.MsgAlreadyOnWaitlist)
	case errors.Is(err, enrollment.ErrWaitlistFailed):
		return nil, huma.Error500InternalServerError(enrollment.MsgWaitlistFailed)
	default:
		return nil, apierror.FromValidation(err)
	}
}
