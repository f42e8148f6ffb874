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

var studentHeader = []string{
	"id", "name", "date_of_birth", "gender", "email", "phone", "address",
	"emergency_contact", "medical_conditions", "goals", "additional_notes",
	"created_at", "updated_at",
}

type StudentRepository struct {
	path    string
	mu      sync.RWMutex
	metrics *metrics.Metrics
}

func NewStudentRepository(path string) *StudentRepository {
	return &StudentRepository{path: path}
}

// WithMetrics enables rewrite instrumentation on the repository.
func (r *StudentRepository) WithMetrics(m *metrics.Metrics) *StudentRepository {
	r.metrics = m
	return r
}

func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students, err := r.load()
	if err != nil {
		return err
	}
	students = append(students, student)
	return r.save(students)
}

func (r *StudentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	students, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, s := range students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.NotFound("student", nil)
}

func (r *StudentRepository) Update(ctx context.Context, student *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students, err := r.load()
	if err != nil {
		return err
	}
	for i, s := range students {
		if s.ID == student.ID {
			students[i] = student
			return r.save(students)
		}
	}
	return apperrors.NotFound("student", nil)
}

func (r *StudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	students, err := r.load()
	if err != nil {
		return err
	}
	for i, s := range students {
		if s.ID == id {
			students = append(students[:i], students[i+1:]...)
			return r.save(students)
		}
	}
	return apperrors.NotFound("student", nil)
}

// List returns all students in insertion order.
func (r *StudentRepository) List(ctx context.Context) ([]*model.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.load()
}

func (r *StudentRepository) load() ([]*model.Student, error) {
	rows, err := readAll(r.path, studentHeader)
	if err != nil {
		return nil, err
	}

	students := make([]*model.Student, 0, len(rows))
	for _, row := range rows {
		s, err := parseStudent(row)
		if err != nil {
			return nil, apperrors.StorageUnavailable(err)
		}
		students = append(students, s)
	}
	return students, nil
}

func (r *StudentRepository) save(students []*model.Student) error {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, marshalStudent(s))
	}

	start := time.Now()
	err := writeAll(r.path, studentHeader, rows)
	if r.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.metrics.StorageRewrites.WithLabelValues("students", status).Inc()
		r.metrics.StorageLatency.WithLabelValues("rewrite").Observe(time.Since(start).Seconds())
	}
	return err
}

func marshalStudent(s *model.Student) []string {
	dob := ""
	if s.DateOfBirth != nil {
		dob = s.DateOfBirth.Format(model.DateLayout)
	}
	return []string{
		s.ID.String(),
		s.Name,
		dob,
		s.Gender,
		s.Email,
		s.Phone,
		s.Address,
		s.EmergencyContact,
		s.MedicalConditions,
		s.Goals,
		s.AdditionalNotes,
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseStudent(row []string) (*model.Student, error) {
	id, err := uuid.Parse(row[0])
	if err != nil {
		return nil, fmt.Errorf("invalid student id %q: %w", row[0], err)
	}

	var dob *time.Time
	if row[2] != "" {
		d, err := time.Parse(model.DateLayout, row[2])
		if err != nil {
			return nil, fmt.Errorf("invalid date of birth %q: %w", row[2], err)
		}
		dob = &d
	}

	createdAt, err := time.Parse(time.RFC3339, row[11])
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", row[11], err)
	}
	updatedAt, err := time.Parse(time.RFC3339, row[12])
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at %q: %w", row[12], err)
	}

	return &model.Student{
		ID:                id,
		Name:              row[1],
		DateOfBirth:       dob,
		Gender:            row[3],
		Email:             row[4],
		Phone:             row[5],
		Address:           row[6],
		EmergencyContact:  row[7],
		MedicalConditions: row[8],
		Goals:             row[9],
		AdditionalNotes:   row[10],
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}
