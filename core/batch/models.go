package batch

import (
	"time"

	"github.com/trezcool/shule/core"
)

// DayMask is a bitmask of weekdays a Batch meets; bit n = time.Weekday(n).
type DayMask uint8

func (m DayMask) Has(day time.Weekday) bool {
	return m&(1<<uint(day)) != 0
}

func (m DayMask) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if m.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Batch is a cohort taught at a fixed weekly schedule.
type Batch struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	TeacherID int       `json:"teacher_id"` // 0 = unassigned
	Days      DayMask   `json:"days"`
	StartTime string    `json:"start_time"` // "15:04"
	EndTime   string    `json:"end_time"`   // "15:04"
	Capacity  int       `json:"capacity"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewBatch contains information needed to create a new Batch.
type NewBatch struct {
	Name      string  `json:"name" validate:"required"`
	Level     int     `json:"level" validate:"required,min=1"`
	TeacherID int     `json:"teacher_id" validate:"omitempty,min=1"`
	Days      DayMask `json:"days" validate:"required,max=127"`
	StartTime string  `json:"start_time" validate:"required,classtime"`
	EndTime   string  `json:"end_time" validate:"required,classtime"`
	Capacity  int     `json:"capacity" validate:"required,min=1"`
}

func (nb *NewBatch) Validate() error {
	nb.Name = core.CleanString(nb.Name)
	return core.Validate.Struct(nb)
}

// UpdateBatch defines what information may be provided to modify an existing Batch.
// Empty fields fall back to the original values.
type UpdateBatch struct {
	Name      string  `json:"name"`
	Level     int     `json:"level" validate:"omitempty,min=1"`
	TeacherID *int    `json:"teacher_id"`
	Days      DayMask `json:"days" validate:"omitempty,max=127"`
	StartTime string  `json:"start_time" validate:"omitempty,classtime"`
	EndTime   string  `json:"end_time" validate:"omitempty,classtime"`
	Capacity  int     `json:"capacity" validate:"omitempty,min=1"`
	IsActive  *bool   `json:"is_active"`
}

func (ub *UpdateBatch) Validate(orig Batch) error {
	name := core.CleanString(ub.Name)
	if name != "" {
		ub.Name = name
	} else {
		ub.Name = orig.Name
	}

	if ub.Level == 0 {
		ub.Level = orig.Level
	}
	if ub.Days == 0 {
		ub.Days = orig.Days
	}
	if ub.StartTime == "" {
		ub.StartTime = orig.StartTime
	}
	if ub.EndTime == "" {
		ub.EndTime = orig.EndTime
	}
	if ub.Capacity == 0 {
		ub.Capacity = orig.Capacity
	}

	return core.Validate.Struct(ub)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Level    int    `query:"level"`
	IsActive *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Level == 0 && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
