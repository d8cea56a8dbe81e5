package attendance

import (
	"time"

	"github.com/trezcool/shule/core"
)

const DateFormat = "2006-01-02"

// Status of a student for one class date.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Attendance is one record per (Student, Batch, Date). Records are immutable
// once created; there is no update flow. Uniqueness per (student, date) is a
// soft expectation only; concurrent markers may create duplicates.
type Attendance struct {
	ID         int       `json:"id"`
	StudentID  int       `json:"student_id"`
	BatchID    int       `json:"batch_id"`
	Date       time.Time `json:"date"`
	Status     Status    `json:"status"`
	Note       string    `json:"note,omitempty"`
	MarkedByID int       `json:"marked_by_id"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Summary is the per-student attendance rollup. Percentages are derived on
// every read, never stored.
type Summary struct {
	TotalClasses      int     `json:"totalClasses"`
	PresentCount      int     `json:"presentCount"`
	AbsentCount       int     `json:"absentCount"`
	LateCount         int     `json:"lateCount"`
	ExcusedCount      int     `json:"excusedCount"`
	AttendancePercent float64 `json:"attendancePercent"`
}

// StudentStats is the per-student entry of a batch attendance rollup.
// Note: PresentPercent gives no partial credit for excused records, unlike
// Summary.AttendancePercent. The two formulas are intentionally kept apart.
type StudentStats struct {
	StudentID      int     `json:"studentId"`
	StudentName    string  `json:"studentName"`
	TotalClasses   int     `json:"totalClasses"`
	PresentCount   int     `json:"presentCount"`
	AbsentCount    int     `json:"absentCount"`
	LateCount      int     `json:"lateCount"`
	ExcusedCount   int     `json:"excusedCount"`
	PresentPercent float64 `json:"presentPercent"`
}

// StatusTotals are org-wide record counts per status.
type StatusTotals struct {
	Present int
	Absent  int
	Late    int
	Excused int
}

func (t StatusTotals) Total() int {
	return t.Present + t.Absent + t.Late + t.Excused
}

// QueryRange bounds a query by inclusive dates; zero values mean unbounded.
type QueryRange struct {
	From time.Time
	To   time.Time
}

// IsInverted reports whether From is after To. Inverted ranges yield empty
// results rather than an error.
func (r QueryRange) IsInverted() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To)
}

// NewAttendance contains information needed to mark one student.
type NewAttendance struct {
	StudentID int    `json:"student_id" validate:"required,min=1"`
	BatchID   int    `json:"batch_id" validate:"required,min=1"`
	Date      string `json:"date" validate:"required"`
	Status    Status `json:"status" validate:"required,attstatus"`
	Note      string `json:"note"`

	date time.Time
}

func (na *NewAttendance) Validate() error {
	na.Note = core.CleanString(na.Note)
	if err := core.Validate.Struct(na); err != nil {
		return err
	}

	day, err := time.Parse(DateFormat, na.Date)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: dateText})
	}
	na.date = day
	return nil
}

// Day returns the parsed class date; only valid after Validate.
func (na *NewAttendance) Day() time.Time { return na.date }

// BulkEntry is one student's mark within a BulkMark.
type BulkEntry struct {
	StudentID int    `json:"student_id" validate:"required,min=1"`
	Status    Status `json:"status" validate:"required,attstatus"`
	Note      string `json:"note"`
}

// BulkMark marks a whole batch for one class date.
type BulkMark struct {
	Entries []BulkEntry `json:"entries" validate:"required,min=1,dive"`
}

func (bm *BulkMark) Validate() error {
	for i := range bm.Entries {
		bm.Entries[i].Note = core.CleanString(bm.Entries[i].Note)
	}
	return core.Validate.Struct(bm)
}
