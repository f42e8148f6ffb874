package schedule

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/repository/csvstore"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
)

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{
		Rooms:     []string{"Sala 1", "Sala 2"},
		SlotStart: "06:00",
		SlotEnd:   "21:00",
		Capacity:  3,
	}
}

func newTestService(t *testing.T) (*Service, *csvstore.BookingRepository) {
	t.Helper()
	bookings := csvstore.NewBookingRepository(filepath.Join(t.TempDir(), "bookings.csv"))
	return NewService(bookings, testScheduleConfig()), bookings
}

func addBooking(t *testing.T, repo *csvstore.BookingRepository, name, date, slot, room string) {
	t.Helper()
	d, err := model.NormalizeDate(date)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &model.Booking{
		StudentID:   uuid.New(),
		StudentName: name,
		Date:        d,
		TimeSlot:    slot,
		Room:        room,
		StaffName:   "Coach",
		CreatedAt:   time.Now(),
	}))
}

func TestWeekView_WindowIsMondayThroughSunday(t *testing.T) {
	svc, _ := newTestService(t)

	// 2024-06-12 is a Wednesday
	wednesday, _ := model.NormalizeDate("2024-06-12")
	view, err := svc.WeekView(context.Background(), "Sala 1", wednesday)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", view.WeekStart.Format(model.DateLayout))
	assert.Equal(t, "2024-06-16", view.WeekEnd.Format(model.DateLayout))
	require.Len(t, view.Days, 7)
	assert.Equal(t, "2024-06-10", view.Days[0])
	assert.Equal(t, "2024-06-16", view.Days[6])
	assert.Equal(t, time.Monday, view.WeekStart.Weekday())
	assert.Equal(t, time.Sunday, view.WeekEnd.Weekday())
}

func TestWeekView_SameWindowForEveryWeekday(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"2024-06-10", "2024-06-13", "2024-06-16"} {
		d, _ := model.NormalizeDate(date)
		view, err := svc.WeekView(ctx, "Sala 1", d)
		require.NoError(t, err)
		assert.Equal(t, "2024-06-10", view.WeekStart.Format(model.DateLayout), "input %s", date)
	}
}

func TestWeekView_CellsHoldOrderedOccupants(t *testing.T) {
	svc, bookings := newTestService(t)

	addBooking(t, bookings, "Ana", "2024-06-12", "09:00", "Sala 1")
	addBooking(t, bookings, "Bruno", "2024-06-12", "09:00", "Sala 1")
	// Other room and other week must not leak in
	addBooking(t, bookings, "Carla", "2024-06-12", "09:00", "Sala 2")
	addBooking(t, bookings, "Davi", "2024-06-19", "09:00", "Sala 1")

	wednesday, _ := model.NormalizeDate("2024-06-12")
	view, err := svc.WeekView(context.Background(), "Sala 1", wednesday)
	require.NoError(t, err)

	cell := view.Cells["09:00"]["2024-06-12"]
	assert.Equal(t, []string{"Ana", "Bruno"}, cell.Occupants)
	assert.Equal(t, "Coach", cell.Staff)

	// Every other cell is empty but present
	empty := view.Cells["10:00"]["2024-06-12"]
	assert.Empty(t, empty.Occupants)
	assert.Len(t, view.Slots, 16)
}

func TestWeekView_UnknownRoom(t *testing.T) {
	svc, _ := newTestService(t)

	d, _ := model.NormalizeDate("2024-06-12")
	_, err := svc.WeekView(context.Background(), "Sala 42", d)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestWeekView_CacheFlushedOnWrite(t *testing.T) {
	svc, bookings := newTestService(t)
	ctx := context.Background()

	wednesday, _ := model.NormalizeDate("2024-06-12")
	view, err := svc.WeekView(ctx, "Sala 1", wednesday)
	require.NoError(t, err)
	assert.Empty(t, view.Cells["09:00"]["2024-06-12"].Occupants)

	addBooking(t, bookings, "Ana", "2024-06-12", "09:00", "Sala 1")

	// Still cached
	view, err = svc.WeekView(ctx, "Sala 1", wednesday)
	require.NoError(t, err)
	assert.Empty(t, view.Cells["09:00"]["2024-06-12"].Occupants)

	svc.FlushCache()

	view, err = svc.WeekView(ctx, "Sala 1", wednesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, view.Cells["09:00"]["2024-06-12"].Occupants)
}

func TestMonthView_CoversWholeMonth(t *testing.T) {
	svc, bookings := newTestService(t)

	addBooking(t, bookings, "Ana", "2024-06-10", "09:00", "Sala 1")
	addBooking(t, bookings, "Bruno", "2024-06-10", "09:00", "Sala 2")
	addBooking(t, bookings, "Carla", "2024-06-25", "10:00", "Sala 1")

	anyDate, _ := model.NormalizeDate("2024-06-12")
	view, err := svc.MonthView(context.Background(), anyDate)
	require.NoError(t, err)

	assert.Equal(t, 2024, view.Year)
	assert.Equal(t, time.June, view.Month)
	require.Len(t, view.Days, 30)

	tenth := view.Days[9]
	assert.Equal(t, "2024-06-10", tenth.Date)
	assert.Equal(t, "Monday", tenth.Weekday)
	assert.Equal(t, 2, tenth.Students)
	assert.Equal(t, 1, tenth.PerRoom["Sala 1"])
	assert.Equal(t, 1, tenth.PerRoom["Sala 2"])
	assert.True(t, tenth.Available)

	first := view.Days[0]
	assert.Equal(t, 0, first.Students)
	assert.True(t, first.Available)
}
