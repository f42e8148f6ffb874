package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgeAt(t *testing.T) {
	dob := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	s := &Student{DateOfBirth: &dob}

	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"day before birthday", time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 33},
		{"on birthday", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 34},
		{"day after birthday", time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), 34},
		{"earlier month", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 33},
		{"later month", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.AgeAt(tt.today))
		})
	}
}

func TestAgeAt_NoDateOfBirth(t *testing.T) {
	s := &Student{}
	assert.Equal(t, 0, s.AgeAt(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
}

func TestNormalizeDate(t *testing.T) {
	d, err := NormalizeDate("2024-06-10")
	assert.NoError(t, err)
	assert.Equal(t, "2024-06-10", d.Format(DateLayout))

	_, err = NormalizeDate("10/06/2024")
	assert.Error(t, err)
}
