package attendance

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/student"
)

type (
	Repository interface {
		CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		CreateAttendances(ctx context.Context, atts []Attendance) ([]Attendance, error)
		QueryStudentAttendance(ctx context.Context, studentID int, rng QueryRange) ([]Attendance, error)
		QueryBatchAttendance(ctx context.Context, batchID int, rng QueryRange) ([]Attendance, error)
		QueryBatchAttendanceByDate(ctx context.Context, batchID int, date time.Time) ([]Attendance, error)
		CountByStatus(ctx context.Context) (StatusTotals, error)
	}

	// StudentDirectory is the slice of the student domain this aggregator needs.
	StudentDirectory interface {
		StudentExists(ctx context.Context, id int) (bool, error)
		GetStudentNames(ctx context.Context, ids []int) (map[int]string, error)
	}

	// BatchDirectory is the slice of the batch domain this aggregator needs.
	BatchDirectory interface {
		BatchExists(ctx context.Context, id int) (bool, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		batches  BatchDirectory
	}
)

func NewService(repo Repository, students StudentDirectory, batches BatchDirectory) *Service {
	return &Service{repo: repo, students: students, batches: batches}
}

// statsAcc accumulates one student's record counts while grouping; named
// fields instead of loose count maps to keep key typos out.
type statsAcc struct {
	present int
	absent  int
	late    int
	excused int
}

func (acc *statsAcc) add(status Status) {
	switch status {
	case StatusPresent:
		acc.present++
	case StatusAbsent:
		acc.absent++
	case StatusLate:
		acc.late++
	case StatusExcused:
		acc.excused++
	}
}

func (acc *statsAcc) total() int {
	return acc.present + acc.absent + acc.late + acc.excused
}

// SummarizeStudent rolls a student's raw records up into a Summary.
// Weighting: effectivePresent = present + late + 0.5×excused.
// A zero-record range yields the all-zero Summary, not an error.
func (svc *Service) SummarizeStudent(ctx context.Context, studentID int, rng QueryRange) (Summary, error) {
	ok, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}
	if !ok {
		return Summary{}, student.ErrNotFound
	}

	if rng.IsInverted() {
		return Summary{}, nil
	}

	records, err := svc.repo.QueryStudentAttendance(ctx, studentID, rng)
	if err != nil {
		return Summary{}, err
	}

	var acc statsAcc
	for _, rec := range records {
		acc.add(rec.Status)
	}

	summary := Summary{
		TotalClasses: acc.total(),
		PresentCount: acc.present,
		AbsentCount:  acc.absent,
		LateCount:    acc.late,
		ExcusedCount: acc.excused,
	}
	if summary.TotalClasses > 0 {
		effectivePresent := float64(acc.present+acc.late) + 0.5*float64(acc.excused)
		summary.AttendancePercent = effectivePresent / float64(summary.TotalClasses) * 100
	}
	return summary, nil
}

// SummarizeBatch rolls a batch's raw records up into per-student stats.
// Weighting here is (present + late) / total, with no credit for excused; this
// differs from SummarizeStudent on purpose and must not be unified silently.
// Result order follows ascending student ID; callers must not rely on it.
func (svc *Service) SummarizeBatch(ctx context.Context, batchID int, rng QueryRange) ([]StudentStats, error) {
	ok, err := svc.batches.BatchExists(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, batch.ErrNotFound
	}

	stats := make([]StudentStats, 0)
	if rng.IsInverted() {
		return stats, nil
	}

	records, err := svc.repo.QueryBatchAttendance(ctx, batchID, rng)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return stats, nil
	}

	accs := make(map[int]*statsAcc)
	ids := make([]int, 0)
	for _, rec := range records {
		acc, ok := accs[rec.StudentID]
		if !ok {
			acc = new(statsAcc)
			accs[rec.StudentID] = acc
			ids = append(ids, rec.StudentID)
		}
		acc.add(rec.Status)
	}

	// join names application-side
	names, err := svc.students.GetStudentNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	sort.Ints(ids)
	for _, id := range ids {
		acc := accs[id]
		st := StudentStats{
			StudentID:    id,
			StudentName:  names[id],
			TotalClasses: acc.total(),
			PresentCount: acc.present,
			AbsentCount:  acc.absent,
			LateCount:    acc.late,
			ExcusedCount: acc.excused,
		}
		if st.TotalClasses > 0 {
			st.PresentPercent = float64(acc.present+acc.late) / float64(st.TotalClasses) * 100
		}
		stats = append(stats, st)
	}
	return stats, nil
}

func (svc *Service) checkRefs(ctx context.Context, studentID, batchID int) error {
	ok, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return err
	}
	if !ok {
		return student.ErrNotFound
	}
	ok, err = svc.batches.BatchExists(ctx, batchID)
	if err != nil {
		return err
	}
	if !ok {
		return batch.ErrNotFound
	}
	return nil
}

// Mark creates one attendance record. Duplicate (student, date) records are
// accepted; see the model note.
func (svc *Service) Mark(ctx context.Context, na NewAttendance, markedByID int) (Attendance, error) {
	if err := svc.checkRefs(ctx, na.StudentID, na.BatchID); err != nil {
		return Attendance{}, err
	}
	att := Attendance{
		StudentID:  na.StudentID,
		BatchID:    na.BatchID,
		Date:       na.Day(),
		Status:     na.Status,
		Note:       na.Note,
		MarkedByID: markedByID,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateAttendance(ctx, att)
}

// MarkBatch creates records for a whole batch and one class date.
func (svc *Service) MarkBatch(ctx context.Context, batchID int, date time.Time, bm BulkMark, markedByID int) ([]Attendance, error) {
	ok, err := svc.batches.BatchExists(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, batch.ErrNotFound
	}

	now := time.Now().UTC()
	atts := make([]Attendance, 0, len(bm.Entries))
	for _, entry := range bm.Entries {
		ok, err := svc.students.StudentExists(ctx, entry.StudentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, student.ErrNotFound
		}
		atts = append(atts, Attendance{
			StudentID:  entry.StudentID,
			BatchID:    batchID,
			Date:       date,
			Status:     entry.Status,
			Note:       entry.Note,
			MarkedByID: markedByID,
			CreatedAt:  now,
		})
	}
	return svc.repo.CreateAttendances(ctx, atts)
}

// ListByBatchDate returns the raw records for a batch and class date.
func (svc *Service) ListByBatchDate(ctx context.Context, batchID int, date time.Time) ([]Attendance, error) {
	ok, err := svc.batches.BatchExists(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, batch.ErrNotFound
	}
	return svc.repo.QueryBatchAttendanceByDate(ctx, batchID, date)
}

// StatusTotals reports org-wide record counts per status.
func (svc *Service) StatusTotals(ctx context.Context) (StatusTotals, error) {
	return svc.repo.CountByStatus(ctx)
}
