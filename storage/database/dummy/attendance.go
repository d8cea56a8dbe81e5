package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

func inRange(date time.Time, rng attendance.QueryRange) bool {
	if !rng.From.IsZero() && date.Before(rng.From) {
		return false
	}
	if !rng.To.IsZero() && date.After(rng.To) {
		return false
	}
	return true
}

// sortDesc orders records by descending date then descending ID, matching the
// live store's read order.
func sortDesc(atts []attendance.Attendance) {
	sort.Slice(atts, func(i, j int) bool {
		if !atts[i].Date.Equal(atts[j].Date) {
			return atts[i].Date.After(atts[j].Date)
		}
		return atts[i].ID > atts[j].ID
	})
}

func (repo *attendanceRepository) CreateAttendance(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	att.ID = repo.db.pkCount
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) CreateAttendances(_ context.Context, atts []attendance.Attendance) ([]attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range atts {
		repo.db.pkCount++
		atts[i].ID = repo.db.pkCount
		att := atts[i]
		repo.db.table[att.ID] = &att
	}
	return atts, nil
}

func (repo *attendanceRepository) QueryStudentAttendance(_ context.Context, studentID int, rng attendance.QueryRange) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.StudentID == studentID && inRange(att.Date, rng) {
			atts = append(atts, *att)
		}
	}
	sortDesc(atts)
	return atts, nil
}

func (repo *attendanceRepository) QueryBatchAttendance(_ context.Context, batchID int, rng attendance.QueryRange) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.BatchID == batchID && inRange(att.Date, rng) {
			atts = append(atts, *att)
		}
	}
	sortDesc(atts)
	return atts, nil
}

func (repo *attendanceRepository) QueryBatchAttendanceByDate(_ context.Context, batchID int, date time.Time) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.BatchID == batchID && att.Date.Equal(date) {
			atts = append(atts, *att)
		}
	}
	sort.Slice(atts, func(i, j int) bool {
		if atts[i].StudentID != atts[j].StudentID {
			return atts[i].StudentID < atts[j].StudentID
		}
		return atts[i].ID < atts[j].ID
	})
	return atts, nil
}

func (repo *attendanceRepository) CountByStatus(_ context.Context) (attendance.StatusTotals, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var totals attendance.StatusTotals
	for _, att := range repo.db.table {
		switch att.Status {
		case attendance.StatusPresent:
			totals.Present++
		case attendance.StatusAbsent:
			totals.Absent++
		case attendance.StatusLate:
			totals.Late++
		case attendance.StatusExcused:
			totals.Excused++
		}
	}
	return totals, nil
}
