package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/apierror"
	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

type ItemHandler struct {
	items       *store.ItemStore
	authHandler *auth.AuthHandler
	logger      *zap.Logger
}

func NewItemHandler(items *store.ItemStore, authHandler *auth.AuthHandler, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{items: items, authHandler: authHandler, logger: logger}
}

type ItemPath struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type ListItemsOutput struct {
	Body []models.Item
}

type CreateItemInput struct {
	auth.AuthInput
	Body validation.ItemInput
}

type ItemOutput struct {
	Body models.Item
}

type SetItemCompletedInput struct {
	ItemPath
	Body struct {
		IsCompleted bool `json:"is_completed"`
	}
}

func (h *ItemHandler) HandleList(ctx context.Context, input *auth.AuthInput) (*ListItemsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	items, err := h.items.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to list items")
	}
	return &ListItemsOutput{Body: items}, nil
}

func (h *ItemHandler) HandleCreate(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	in, err := validation.ValidateItem(input.Body)
	if err != nil {
		return nil, apierror.FromValidation(err)
	}

	item := models.Item{Task: in.Name, Description: in.Description}
	if err := h.items.Create(ctx, &item); err != nil {
		h.logger.Error("Failed to create item", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to create item")
	}
	return &ItemOutput{Body: item}, nil
}

func (h *ItemHandler) HandleSetCompleted(ctx context.Context, input *SetItemCompletedInput) (*MessageResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	err := h.items.SetCompleted(ctx, input.ID, input.Body.IsCompleted)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("Item not found")
	}
	if err != nil {
		h.logger.Error("Failed to update item", zap.Uint("item_id", input.ID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to update item")
	}
	return message("Item updated"), nil
}

func (h *ItemHandler) HandleDelete(ctx context.Context, input *ItemPath) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	if err := h.items.Delete(ctx, input.ID); err != nil {
		h.logger.Error("Failed to delete item", zap.Uint("item_id", input.ID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to delete item")
	}
	return &struct{}{}, nil
}
