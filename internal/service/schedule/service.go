// Package schedule computes read-side occupancy views over the booking
// ledger. Views are recomputed from the ledger on read and cached briefly.
package schedule

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/config"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/repository"
	apperrors "github.com/sergiokmpos/PersonalTrainerAgenda/pkg/errors"
)

const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = time.Minute
)

type Service struct {
	bookings repository.BookingRepository
	schedule config.ScheduleConfig
	cache    *gocache.Cache
}

func NewService(bookings repository.BookingRepository, schedule config.ScheduleConfig) *Service {
	return &Service{
		bookings: bookings,
		schedule: schedule,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

// FlushCache drops every cached view. Called by the write side after a
// booking or a cascade delete.
func (s *Service) FlushCache() {
	s.cache.Flush()
}

// WeekView projects one room's bookings onto the Monday-through-Sunday
// window containing anyDate. Every cell tolerates zero occupants; a full
// cell holds exactly Capacity names.
func (s *Service) WeekView(ctx context.Context, room string, anyDate time.Time) (*model.WeekView, error) {
	if !s.schedule.HasRoom(room) {
		return nil, apperrors.Validation(fmt.Sprintf("unknown room %q", room), nil)
	}

	weekStart := mondayOf(anyDate)
	weekEnd := weekStart.AddDate(0, 0, 6)

	cacheKey := fmt.Sprintf("week:%s:%s", room, weekStart.Format(model.DateLayout))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.WeekView), nil
	}

	bookings, err := s.bookings.ListByRoomAndRange(ctx, room, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	days := make([]string, 7)
	for i := range days {
		days[i] = weekStart.AddDate(0, 0, i).Format(model.DateLayout)
	}

	slots := s.schedule.Slots()
	cells := make(map[string]map[string]model.WeekCell, len(slots))
	for _, slot := range slots {
		row := make(map[string]model.WeekCell, len(days))
		for _, day := range days {
			row[day] = model.WeekCell{}
		}
		cells[slot] = row
	}

	// Ledger order is booking order, so occupants stay ordered per cell.
	for _, b := range bookings {
		day := b.DateKey()
		cell := cells[b.TimeSlot][day]
		cell.Occupants = append(cell.Occupants, b.StudentName)
		if cell.Staff == "" {
			cell.Staff = b.StaffName
		}
		cells[b.TimeSlot][day] = cell
	}

	view := &model.WeekView{
		Room:      room,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Days:      days,
		Slots:     slots,
		Capacity:  s.schedule.Capacity,
		Cells:     cells,
	}
	s.cache.Set(cacheKey, view, gocache.DefaultExpiration)
	return view, nil
}

// MonthView summarizes every day of the month containing anyDate: booked
// students per day and per room, and whether any capacity remains.
func (s *Service) MonthView(ctx context.Context, anyDate time.Time) (*model.MonthView, error) {
	first := time.Date(anyDate.Year(), anyDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	cacheKey := fmt.Sprintf("month:%s", first.Format(model.DateLayout))
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.MonthView), nil
	}

	bookings, err := s.bookings.ListByDateRange(ctx, first, last)
	if err != nil {
		return nil, err
	}

	perDay := make(map[string][]*model.Booking)
	for _, b := range bookings {
		key := b.DateKey()
		perDay[key] = append(perDay[key], b)
	}

	dayCapacity := s.schedule.Capacity * len(s.schedule.Rooms) * len(s.schedule.Slots())

	days := make([]model.MonthDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(model.DateLayout)
		booked := perDay[key]

		perRoom := make(map[string]int, len(s.schedule.Rooms))
		for _, room := range s.schedule.Rooms {
			perRoom[room] = 0
		}
		for _, b := range booked {
			perRoom[b.Room]++
		}

		days = append(days, model.MonthDay{
			Date:      key,
			Weekday:   d.Weekday().String(),
			Students:  len(booked),
			PerRoom:   perRoom,
			Available: len(booked) < dayCapacity,
		})
	}

	view := &model.MonthView{
		Year:  first.Year(),
		Month: first.Month(),
		Days:  days,
	}
	s.cache.Set(cacheKey, view, gocache.DefaultExpiration)
	return view, nil
}

// mondayOf returns the Monday of the week containing d, at midnight UTC.
func mondayOf(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
