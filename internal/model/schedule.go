package model

import "time"

// WeekCell is the occupancy of one (slot, day) cell in a week view.
// Occupants preserves booking order; an empty cell has no occupants.
type WeekCell struct {
	Occupants []string `json:"occupants"`
	Staff     string   `json:"staff,omitempty"`
}

// WeekView is a read-side projection of one room's bookings over a
// Monday-through-Sunday window. Cells is keyed by slot, then by the
// ISO date of the day column.
type WeekView struct {
	Room      string                         `json:"room"`
	WeekStart time.Time                      `json:"week_start"`
	WeekEnd   time.Time                      `json:"week_end"`
	Days      []string                       `json:"days"`
	Slots     []string                       `json:"slots"`
	Capacity  int                            `json:"capacity"`
	Cells     map[string]map[string]WeekCell `json:"cells"`
}

// MonthDay summarizes one calendar day for the monthly agenda.
type MonthDay struct {
	Date      string         `json:"date"`
	Weekday   string         `json:"weekday"`
	Students  int            `json:"students"`
	PerRoom   map[string]int `json:"per_room"`
	Available bool           `json:"available"`
}

// MonthView covers every day of the month containing the queried date.
type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Days  []MonthDay `json:"days"`
}
