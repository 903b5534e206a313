package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/apierror"
	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

// BeginnersHandler manages the beginners classes ("iniciación") and the
// students enrolled in them.
type BeginnersHandler struct {
	beginners   *store.BeginnersStore
	authHandler *auth.AuthHandler
	logger      *zap.Logger
}

func NewBeginnersHandler(beginners *store.BeginnersStore, authHandler *auth.AuthHandler, logger *zap.Logger) *BeginnersHandler {
	return &BeginnersHandler{beginners: beginners, authHandler: authHandler, logger: logger}
}

type ClassPath struct {
	auth.AuthInput
	ClassID uint `path:"classID"`
}

type StudentPath struct {
	auth.AuthInput
	StudentID uint `path:"studentID"`
}

type ListClassesOutput struct {
	Body []models.BeginnersClass
}

type CreateClassInput struct {
	auth.AuthInput
	Body validation.ClassInput
}

type ClassOutput struct {
	Body models.BeginnersClass
}

type CreateStudentInput struct {
	ClassPath
	Body validation.StudentInput
}

type UpdateStudentInput struct {
	StudentPath
	Body validation.StudentInput
}

type StudentOutput struct {
	Body models.BeginnersStudent
}

func (h *BeginnersHandler) HandleListClasses(ctx context.Context, input *auth.AuthInput) (*ListClassesOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	classes, err := h.beginners.ListClassesWithStudents(ctx)
	if err != nil {
		h.logger.Error("Failed to list classes", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to list classes")
	}
	return &ListClassesOutput{Body: classes}, nil
}

func (h *BeginnersHandler) HandleCreateClass(ctx context.Context, input *CreateClassInput) (*ClassOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	in, err := validation.ValidateClass(input.Body)
	if err != nil {
		return nil, apierror.FromValidation(err)
	}

	class := models.BeginnersClass{Name: in.Name, Weekday: time.Weekday(in.Weekday), StartTime: in.StartTime}
	if err := h.beginners.CreateClass(ctx, &class); err != nil {
		h.logger.Error("Failed to create class", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to create class")
	}
	return &ClassOutput{Body: class}, nil
}

func (h *BeginnersHandler) HandleDeleteClass(ctx context.Context, input *ClassPath) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	if err := h.beginners.DeleteClass(ctx, input.ClassID); err != nil {
		h.logger.Error("Failed to delete class", zap.Uint("class_id", input.ClassID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to delete class")
	}
	return &struct{}{}, nil
}

func (h *BeginnersHandler) HandleCreateStudent(ctx context.Context, input *CreateStudentInput) (*StudentOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	in, err := validation.ValidateStudent(input.Body)
	if err != nil {
		return nil, apierror.FromValidation(err)
	}

	student := studentFromInput(in)
	student.ClassID = input.ClassID
	err = h.beginners.CreateStudent(ctx, &student)
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("Class not found")
	}
	if err != nil {
		h.logger.Error("Failed to create student", zap.Uint("class_id", input.ClassID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to create student")
	}
	return &StudentOutput{Body: student}, nil
}

func (h *BeginnersHandler) HandleUpdateStudent(ctx context.Context, input *UpdateStudentInput) (*MessageResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	in, err := validation.ValidateStudent(input.Body)
	if err != nil {
		return nil, apierror.FromValidation(err)
	}

	err = h.beginners.UpdateStudent(ctx, input.StudentID, studentFromInput(in))
	if errors.Is(err, store.ErrNotFound) {
		return nil, huma.Error404NotFound("Student not found")
	}
	if err != nil {
		h.logger.Error("Failed to update student", zap.Uint("student_id", input.StudentID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to update student")
	}
	return message("Student updated"), nil
}

func (h *BeginnersHandler) HandleDeleteStudent(ctx context.Context, input *StudentPath) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	if err := h.beginners.DeleteStudent(ctx, input.StudentID); err != nil {
		h.logger.Error("Failed to delete student", zap.Uint("student_id", input.StudentID), zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to delete student")
	}
	return &struct{}{}, nil
}

// studentFromInput expects input that passed ValidateStudent.
func studentFromInput(in validation.StudentInput) models.BeginnersStudent {
	return models.BeginnersStudent{
		FullName:    in.FullName,
		PaymentDate: *in.PaymentDate,
		BonusFrom:   *in.BonusDateRange.From,
		BonusTo:     *in.BonusDateRange.To,
	}
}
