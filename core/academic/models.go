package academic

import (
	"time"

	"github.com/trezcool/shule/core"
)

const DateFormat = "2006-01-02"

// SubjectScore is one subject's obtained/total pair within a Test.
type SubjectScore struct {
	Name     string  `json:"name" validate:"required"`
	Obtained float64 `json:"obtained" validate:"min=0"`
	Total    float64 `json:"total" validate:"required,gt=0"`
}

// Test holds one student's scores for one test instance. TotalObtained,
// TotalPossible and Percent are computed once at entry time; downstream
// aggregation treats the stored Percent as authoritative.
type Test struct {
	ID            int            `json:"id"`
	StudentID     int            `json:"student_id"`
	Level         int            `json:"level"`
	Name          string         `json:"name"`
	TakenAt       time.Time      `json:"taken_at"`
	Subjects      []SubjectScore `json:"subjects"`
	TotalObtained float64        `json:"total_obtained"`
	TotalPossible float64        `json:"total_possible"`
	Percent       float64        `json:"percent"`
	CreatedAt     time.Time      `json:"created_at"` // UTC
}

// LevelSummary is the per-level rollup of a student's tests.
type LevelSummary struct {
	Level        int       `json:"level"`
	TestsCount   int       `json:"testsCount"`
	LastTestDate time.Time `json:"lastTestDate"`
	AvgPercent   float64   `json:"avgPercent"`
}

// NewTest contains information needed to record a new Test.
type NewTest struct {
	StudentID int            `json:"student_id" validate:"required,min=1"`
	Level     int            `json:"level" validate:"required,min=1"`
	Name      string         `json:"name" validate:"required"`
	TakenAt   string         `json:"taken_at" validate:"required"`
	Subjects  []SubjectScore `json:"subjects" validate:"required,min=1,dive"`

	takenAt time.Time
}

func (nt *NewTest) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	for i := range nt.Subjects {
		nt.Subjects[i].Name = core.CleanString(nt.Subjects[i].Name)
	}
	if err := core.Validate.Struct(nt); err != nil {
		return err
	}

	day, err := time.Parse(DateFormat, nt.TakenAt)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "taken_at", Error: "must be a valid date (2006-01-02)"})
	}
	nt.takenAt = day
	return nil
}

// Day returns the parsed test date; only valid after Validate.
func (nt *NewTest) Day() time.Time { return nt.takenAt }
