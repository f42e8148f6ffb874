package csvstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
)

func newBooking(studentID uuid.UUID, date, slot, room string) *model.Booking {
	d, _ := time.Parse(model.DateLayout, date)
	return &model.Booking{
		StudentID:   studentID,
		StudentName: "Student " + studentID.String()[:8],
		Date:        d,
		TimeSlot:    slot,
		Room:        room,
		StaffName:   "Coach",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestBookingRepository_CountOccupancyMatchesExactTriple(t *testing.T) {
	repo := NewBookingRepository(filepath.Join(t.TempDir(), "bookings.csv"))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-10", "09:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-10", "09:00", "Sala 1")))
	// Different slot, room and date must not be counted
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-10", "10:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-10", "09:00", "Sala 2")))
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-11", "09:00", "Sala 1")))

	date, _ := time.Parse(model.DateLayout, "2024-06-10")
	count, err := repo.CountOccupancy(ctx, date, "09:00", "Sala 1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBookingRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	repo := NewBookingRepository(path)
	ctx := context.Background()

	b := newBooking(uuid.New(), "2024-06-10", "09:00", "Sala 1")
	require.NoError(t, repo.Create(ctx, b))

	reloaded, err := NewBookingRepository(path).List(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)

	got := reloaded[0]
	assert.Equal(t, b.StudentID, got.StudentID)
	assert.Equal(t, b.StudentName, got.StudentName)
	assert.Equal(t, "2024-06-10", got.DateKey())
	assert.Equal(t, b.TimeSlot, got.TimeSlot)
	assert.Equal(t, b.Room, got.Room)
	assert.Equal(t, b.StaffName, got.StaffName)
	assert.True(t, got.CreatedAt.Equal(b.CreatedAt))
}

func TestBookingRepository_DeleteByStudent(t *testing.T) {
	repo := NewBookingRepository(filepath.Join(t.TempDir(), "bookings.csv"))
	ctx := context.Background()

	target := uuid.New()
	other := uuid.New()
	require.NoError(t, repo.Create(ctx, newBooking(target, "2024-06-10", "09:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(other, "2024-06-10", "09:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(target, "2024-06-11", "10:00", "Sala 2")))

	removed, err := repo.DeleteByStudent(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, other, remaining[0].StudentID)
}

func TestBookingRepository_ListByRoomAndRange(t *testing.T) {
	repo := NewBookingRepository(filepath.Join(t.TempDir(), "bookings.csv"))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-10", "09:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-16", "09:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-17", "09:00", "Sala 1")))
	require.NoError(t, repo.Create(ctx, newBooking(uuid.New(), "2024-06-12", "09:00", "Sala 2")))

	from, _ := time.Parse(model.DateLayout, "2024-06-10")
	to, _ := time.Parse(model.DateLayout, "2024-06-16")

	bookings, err := repo.ListByRoomAndRange(ctx, "Sala 1", from, to)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "2024-06-10", bookings[0].DateKey())
	assert.Equal(t, "2024-06-16", bookings[1].DateKey())
}
