package csvstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
	"github.com/sergiokmpos/PersonalTrainerAgenda/pkg/metrics"
)

var bookingHeader = []string{
	"student_id", "student_name", "date", "time_slot", "room", "staff_name",
	"created_at",
}

type BookingRepository struct {
	path    string
	mu      sync.RWMutex
	metrics *metrics.Metrics
}

func NewBookingRepository(path string) *BookingRepository {
	return &BookingRepository{path: path}
}

// WithMetrics enables rewrite instrumentation on the repository.
func (r *BookingRepository) WithMetrics(m *metrics.Metrics) *BookingRepository {
	r.metrics = m
	return r
}

// Create appends one booking row. Rows are append-only: a booking is never
// updated, only removed when its student is deleted.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.load()
	if err != nil {
		return err
	}
	bookings = append(bookings, booking)
	return r.save(bookings)
}

func (r *BookingRepository) List(ctx context.Context) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load()
}

// CountOccupancy counts bookings matching the (date, slot, room) triple
// exactly. Dates are compared through their normalized ISO form.
func (r *BookingRepository) CountOccupancy(ctx context.Context, date time.Time, timeSlot, room string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings, err := r.load()
	if err != nil {
		return 0, err
	}

	key := date.Format(model.DateLayout)
	count := 0
	for _, b := range bookings {
		if b.DateKey() == key && b.TimeSlot == timeSlot && b.Room == room {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepository) ListByRoomAndRange(ctx context.Context, room string, from, to time.Time) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings, err := r.load()
	if err != nil {
		return nil, err
	}

	var out []*model.Booking
	for _, b := range bookings {
		if b.Room != room {
			continue
		}
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *BookingRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings, err := r.load()
	if err != nil {
		return nil, err
	}

	var out []*model.Booking
	for _, b := range bookings {
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// DeleteByStudent removes every booking referencing the student and
// returns how many rows were pruned.
func (r *BookingRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := r.load()
	if err != nil {
		return 0, err
	}

	kept := bookings[:0]
	removed := 0
	for _, b := range bookings {
		if b.StudentID == studentID {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save(kept)
}

func (r *BookingRepository) load() ([]*model.Booking, error) {
	rows, err := readAll(r.path, bookingHeader)
	if err != nil {
		return nil, err
	}

	bookings := make([]*model.Booking, 0, len(rows))
	for _, row := range rows {
		b, err := parseBooking(row)
		if err != nil {
			return nil, apperrors.StorageUnavailable(err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *BookingRepository) save(bookings []*model.Booking) error {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, marshalBooking(b))
	}

	start := time.Now()
	err := writeAll(r.path, bookingHeader, rows)
	if r.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.metrics.StorageRewrites.WithLabelValues("bookings", status).Inc()
		r.metrics.StorageLatency.WithLabelValues("rewrite").Observe(time.Since(start).Seconds())
	}
	return err
}

func marshalBooking(b *model.Booking) []string {
	return []string{
		b.StudentID.String(),
		b.StudentName,
		b.Date.Format(model.DateLayout),
		b.TimeSlot,
		b.Room,
		b.StaffName,
		b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseBooking(row []string) (*model.Booking, error) {
	id, err := uuid.Parse(row[0])
	if err != nil {
		return nil, fmt.Errorf("invalid booking student id %q: %w", row[0], err)
	}
	date, err := time.Parse(model.DateLayout, row[2])
	if err != nil {
		return nil, fmt.Errorf("invalid booking date %q: %w", row[2], err)
	}
	createdAt, err := time.Parse(time.RFC3339, row[6])
	if err != nil {
		return nil, fmt.Errorf("invalid booking created_at %q: %w", row[6], err)
	}

	return &model.Booking{
		StudentID:   id,
		StudentName: row[1],
		Date:        date,
		TimeSlot:    row[3],
		Room:        row[4],
		StaffName:   row[5],
		CreatedAt:   createdAt,
	}, nil
}
