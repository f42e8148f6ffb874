package booking

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/email"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/repository/csvstore"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
)

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{
		Rooms:     []string{"Sala 1", "Sala 2", "Sala 3"},
		SlotStart: "06:00",
		SlotEnd:   "21:00",
		Capacity:  3,
	}
}

func newTestService(t *testing.T) (*Service, *csvstore.StudentRepository) {
	t.Helper()
	dir := t.TempDir()
	students := csvstore.NewStudentRepository(filepath.Join(dir, "students.csv"))
	bookings := csvstore.NewBookingRepository(filepath.Join(dir, "bookings.csv"))
	emailSvc := email.NewService(config.EmailConfig{Enabled: false})
	return NewService(bookings, students, testScheduleConfig(), emailSvc, nil, nil), students
}

func registerStudent(t *testing.T, repo *csvstore.StudentRepository, name string) uuid.UUID {
	t.Helper()
	now := time.Now()
	s := &model.Student{
		ID:               uuid.New(),
		Name:             name,
		EmergencyContact: "contact",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	return s.ID
}

func bookingRequest(studentID uuid.UUID, date, slot, room string) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		StudentID: studentID.String(),
		Date:      date,
		TimeSlot:  slot,
		Room:      room,
		StaffName: "Coach",
	}
}

func TestBook_CapacityCeiling(t *testing.T) {
	svc, students := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := registerStudent(t, students, fmt.Sprintf("Student %d", i))
		_, err := svc.Book(ctx, bookingRequest(id, "2024-06-10", "09:00", "Sala 1"))
		require.NoError(t, err)

		date, _ := model.NormalizeDate("2024-06-10")
		count, err := svc.CountOccupancy(ctx, date, "09:00", "Sala 1")
		require.NoError(t, err)
		assert.Equal(t, i+1, count)
	}

	// Fourth booking for the same triple must fail without mutating the ledger
	extra := registerStudent(t, students, "Fourth")
	_, err := svc.Book(ctx, bookingRequest(extra, "2024-06-10", "09:00", "Sala 1"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCapacityExceeded))

	all, err := svc.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Another room at the same date and slot is unaffected
	_, err = svc.Book(ctx, bookingRequest(extra, "2024-06-10", "09:00", "Sala 2"))
	assert.NoError(t, err)
}

func TestBook_UnknownRoomOrSlot(t *testing.T) {
	svc, students := newTestService(t)
	ctx := context.Background()
	id := registerStudent(t, students, "Ana")

	_, err := svc.Book(ctx, bookingRequest(id, "2024-06-10", "09:00", "Sala 42"))
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.Book(ctx, bookingRequest(id, "2024-06-10", "22:00", "Sala 1"))
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	all, err := svc.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBook_UnknownStudent(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Book(context.Background(), bookingRequest(uuid.New(), "2024-06-10", "09:00", "Sala 1"))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestBook_DenormalizesStudentName(t *testing.T) {
	svc, students := newTestService(t)
	ctx := context.Background()
	id := registerStudent(t, students, "Maria Silva")

	b, err := svc.Book(ctx, bookingRequest(id, "2024-06-10", "07:00", "Sala 1"))
	require.NoError(t, err)
	assert.Equal(t, id, b.StudentID)
	assert.Equal(t, "Maria Silva", b.StudentName)
}

func TestBook_ConcurrentRequestsNeverOverbook(t *testing.T) {
	svc, students := newTestService(t)
	ctx := context.Background()

	ids := make([]uuid.UUID, 10)
	for i := range ids {
		ids[i] = registerStudent(t, students, fmt.Sprintf("Student %d", i))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if _, err := svc.Book(ctx, bookingRequest(id, "2024-06-10", "09:00", "Sala 1")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)

	date, _ := model.NormalizeDate("2024-06-10")
	count, err := svc.CountOccupancy(ctx, date, "09:00", "Sala 1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
