// Package booking implements the ledger: capacity-checked slot booking
// and occupancy queries.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/email"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/repository"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/metrics"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/validator"
)

// ScheduleInvalidator flushes cached schedule views after a write.
type ScheduleInvalidator interface {
	FlushCache()
}

type Service struct {
	bookings    repository.BookingRepository
	students    repository.StudentRepository
	schedule    config.ScheduleConfig
	emailSvc    email.Service
	invalidator ScheduleInvalidator
	metrics     *metrics.Metrics
	validate    validator.Validator

	// mu serializes the capacity check and the insert so two concurrent
	// requests cannot both observe a free slot and overbook it.
	mu sync.Mutex
}

func NewService(bookings repository.BookingRepository, students repository.StudentRepository,
	schedule config.ScheduleConfig, emailSvc email.Service,
	invalidator ScheduleInvalidator, m *metrics.Metrics) *Service {
	return &Service{
		bookings:    bookings,
		students:    students,
		schedule:    schedule,
		emailSvc:    emailSvc,
		invalidator: invalidator,
		metrics:     m,
		validate:    validator.New(),
	}
}

// Book records one booking for (student, date, slot, room) after checking
// the capacity ceiling. Fails with CapacityExceeded when the triple is
// full; the ledger is not mutated on any failure.
func (s *Service) Book(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	start := time.Now()

	if err := s.validate.Validate(req); err != nil {
		s.reject("validation")
		return nil, apperrors.Validation(err.Error(), err)
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		s.reject("validation")
		return nil, apperrors.Validation("invalid student id", err)
	}
	date, err := model.NormalizeDate(req.Date)
	if err != nil {
		s.reject("validation")
		return nil, apperrors.Validation("invalid date", err)
	}
	if !s.schedule.HasRoom(req.Room) {
		s.reject("validation")
		return nil, apperrors.Validation(fmt.Sprintf("unknown room %q", req.Room), nil)
	}
	if !s.schedule.HasSlot(req.TimeSlot) {
		s.reject("validation")
		return nil, apperrors.Validation(fmt.Sprintf("unknown time slot %q", req.TimeSlot), nil)
	}

	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		s.reject("not_found")
		return nil, err
	}

	booking := &model.Booking{
		StudentID:   student.ID,
		StudentName: student.Name,
		Date:        date,
		TimeSlot:    req.TimeSlot,
		Room:        req.Room,
		StaffName:   req.StaffName,
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	count, err := s.bookings.CountOccupancy(ctx, date, req.TimeSlot, req.Room)
	if err == nil && count >= s.schedule.Capacity {
		err = apperrors.CapacityExceeded(fmt.Sprintf(
			"slot %s on %s in %s is full (%d/%d)",
			req.TimeSlot, booking.DateKey(), req.Room, count, s.schedule.Capacity,
		))
		if s.metrics != nil {
			s.metrics.BookingsRejected.WithLabelValues("capacity").Inc()
		}
	}
	if err == nil {
		err = s.bookings.Create(ctx, booking)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.FlushCache()
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
		s.metrics.BookingLatency.Observe(time.Since(start).Seconds())
		s.metrics.OccupancyPerRoom.WithLabelValues(req.Room).Set(float64(count + 1))
	}

	if student.Email != "" {
		if err := s.emailSvc.SendBookingConfirmation(ctx, student.Email, student.Name,
			booking.DateKey(), booking.TimeSlot, booking.Room); err != nil {
			log.Warn().Err(err).Str("student_id", student.ID.String()).Msg("booking confirmation email failed")
		}
	}

	log.Info().
		Str("student_id", student.ID.String()).
		Str("date", booking.DateKey()).
		Str("slot", booking.TimeSlot).
		Str("room", booking.Room).
		Msg("booking recorded")

	return booking, nil
}

// CountOccupancy returns the number of bookings matching the triple.
func (s *Service) CountOccupancy(ctx context.Context, date time.Time, timeSlot, room string) (int, error) {
	if !s.schedule.HasRoom(room) {
		return 0, apperrors.Validation(fmt.Sprintf("unknown room %q", room), nil)
	}
	return s.bookings.CountOccupancy(ctx, date, timeSlot, room)
}

// ListBookings returns the whole ledger in insertion order.
func (s *Service) ListBookings(ctx context.Context) ([]*model.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *Service) reject(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}
