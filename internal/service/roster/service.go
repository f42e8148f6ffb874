// Package roster implements CRUD over student records.
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/repository"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/metrics"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/validator"
)

// ScheduleInvalidator flushes cached schedule views after the ledger
// changes underneath them.
type ScheduleInvalidator interface {
	FlushCache()
}

type Service struct {
	students    repository.StudentRepository
	bookings    repository.BookingRepository
	validate    validator.Validator
	invalidator ScheduleInvalidator
	metrics     *metrics.Metrics
}

func NewService(students repository.StudentRepository, bookings repository.BookingRepository,
	invalidator ScheduleInvalidator, m *metrics.Metrics) *Service {
	return &Service{
		students:    students,
		bookings:    bookings,
		validate:    validator.New(),
		invalidator: invalidator,
		metrics:     m,
	}
}

func (s *Service) CreateStudent(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.Validation("invalid date of birth", err)
	}

	now := time.Now()
	student := &model.Student{
		ID:                uuid.New(),
		Name:              req.Name,
		DateOfBirth:       dob,
		Gender:            req.Gender,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		EmergencyContact:  req.EmergencyContact,
		MedicalConditions: req.MedicalConditions,
		Goals:             req.Goals,
		AdditionalNotes:   req.AdditionalNotes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.updateRosterSize(ctx)
	return student, nil
}

func (s *Service) GetStudent(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.students.Get(ctx, id)
}

// UpdateStudent replaces every mutable field of the student. The ID and
// creation timestamp are preserved.
func (s *Service) UpdateStudent(ctx context.Context, id uuid.UUID, req *model.UpdateStudentRequest) (*model.Student, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.Validation("invalid date of birth", err)
	}

	existing, err := s.students.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		ID:                existing.ID,
		Name:              req.Name,
		DateOfBirth:       dob,
		Gender:            req.Gender,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		EmergencyContact:  req.EmergencyContact,
		MedicalConditions: req.MedicalConditions,
		Goals:             req.Goals,
		AdditionalNotes:   req.AdditionalNotes,
		CreatedAt:         existing.CreatedAt,
		UpdatedAt:         time.Now(),
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes the student and cascade-prunes every booking that
// references them, so the ledger never holds dangling references.
func (s *Service) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}

	pruned, err := s.bookings.DeleteByStudent(ctx, id)
	if err != nil {
		// The roster row is already gone; report the partial cascade
		// rather than pretending the delete failed.
		log.Error().Err(err).Str("student_id", id.String()).Msg("failed to prune bookings after roster delete")
		return fmt.Errorf("student deleted but bookings not pruned: %w", err)
	}
	if pruned > 0 {
		log.Info().Str("student_id", id.String()).Int("pruned", pruned).Msg("cascade-deleted bookings")
		if s.invalidator != nil {
			s.invalidator.FlushCache()
		}
	}

	s.updateRosterSize(ctx)
	return nil
}

// ListStudents returns the roster in insertion order.
func (s *Service) ListStudents(ctx context.Context) ([]*model.Student, error) {
	return s.students.List(ctx)
}

func (s *Service) updateRosterSize(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return
	}
	s.metrics.RosterSize.Set(float64(len(students)))
}

func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
