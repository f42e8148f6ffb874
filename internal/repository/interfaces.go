package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sergiokmpos/PersonalTrainerAgenda/internal/model"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	Get(ctx context.Context, id uuid.UUID) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Student, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	List(ctx context.Context) ([]*model.Booking, error)
	CountOccupancy(ctx context.Context, date time.Time, timeSlot, room string) (int, error)
	ListByRoomAndRange(ctx context.Context, room string, from, to time.Time) ([]*model.Booking, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) (int, error)
}
