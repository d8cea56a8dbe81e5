package attendance_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	attendance.InitValidators()
	os.Exit(m.Run())
}

type testEnv struct {
	svc         *attendance.Service
	attRepo     attendance.Repository
	studentRepo student.Repository
	batchRepo   batch.Repository
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	env := &testEnv{
		attRepo:     dummydb.NewAttendanceRepository(db),
		studentRepo: dummydb.NewStudentRepository(db),
		batchRepo:   dummydb.NewBatchRepository(db),
	}
	env.svc = attendance.NewService(env.attRepo, env.studentRepo, env.batchRepo)
	return env
}

func (env *testEnv) seedStudent(t *testing.T, name string, batchID int) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := env.studentRepo.CreateStudent(context.Background(), student.Student{
		Name:      name,
		Level:     1,
		BatchID:   batchID,
		Status:    student.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seedStudent() failed, %v", err)
	}
	return st
}

func (env *testEnv) seedBatch(t *testing.T, name string) batch.Batch {
	t.Helper()

	now := time.Now().UTC()
	b, err := env.batchRepo.CreateBatch(context.Background(), batch.Batch{
		Name:      name,
		Level:     1,
		Days:      1 << uint(time.Monday),
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  30,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seedBatch() failed, %v", err)
	}
	return b
}

func (env *testEnv) seedRecord(t *testing.T, studentID, batchID int, date string, status attendance.Status) attendance.Attendance {
	t.Helper()

	day, err := time.Parse(attendance.DateFormat, date)
	if err != nil {
		t.Fatalf("seedRecord() failed, %v", err)
	}
	att, err := env.attRepo.CreateAttendance(context.Background(), attendance.Attendance{
		StudentID:  studentID,
		BatchID:    batchID,
		Date:       day,
		Status:     status,
		MarkedByID: 1,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seedRecord() failed, %v", err)
	}
	return att
}

func day(t *testing.T, date string) time.Time {
	t.Helper()

	d, err := time.Parse(attendance.DateFormat, date)
	if err != nil {
		t.Fatalf("day() failed, %v", err)
	}
	return d
}

func TestService_SummarizeStudent(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A")
	st := env.seedStudent(t, "Amani", b.ID)

	t.Run("unknown student", func(t *testing.T) {
		_, err := env.svc.SummarizeStudent(ctx, 999, attendance.QueryRange{})
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("no records", func(t *testing.T) {
		sum, err := env.svc.SummarizeStudent(ctx, st.ID, attendance.QueryRange{})
		assert.NoError(t, err)
		assert.Equal(t, attendance.Summary{}, sum)
	})

	env.seedRecord(t, st.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-02", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-03", attendance.StatusAbsent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-04", attendance.StatusLate)
	env.seedRecord(t, st.ID, b.ID, "2021-03-05", attendance.StatusExcused)

	t.Run("excused counts half", func(t *testing.T) {
		sum, err := env.svc.SummarizeStudent(ctx, st.ID, attendance.QueryRange{})
		assert.NoError(t, err)
		assert.Equal(t, 5, sum.TotalClasses)
		assert.Equal(t, 2, sum.PresentCount)
		assert.Equal(t, 1, sum.AbsentCount)
		assert.Equal(t, 1, sum.LateCount)
		assert.Equal(t, 1, sum.ExcusedCount)
		// (2 + 1 + 0.5) / 5 * 100
		assert.InDelta(t, 70, sum.AttendancePercent, 1e-9)
	})

	t.Run("bounded range", func(t *testing.T) {
		rng := attendance.QueryRange{From: day(t, "2021-03-02"), To: day(t, "2021-03-04")}
		sum, err := env.svc.SummarizeStudent(ctx, st.ID, rng)
		assert.NoError(t, err)
		assert.Equal(t, 3, sum.TotalClasses)
		// (1 + 1) / 3 * 100
		assert.InDelta(t, float64(200)/3, sum.AttendancePercent, 1e-9)
	})

	t.Run("inverted range yields zero summary", func(t *testing.T) {
		rng := attendance.QueryRange{From: day(t, "2021-03-05"), To: day(t, "2021-03-01")}
		sum, err := env.svc.SummarizeStudent(ctx, st.ID, rng)
		assert.NoError(t, err)
		assert.Equal(t, attendance.Summary{}, sum)
	})
}

func TestService_SummarizeBatch(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A")
	st1 := env.seedStudent(t, "Amani", b.ID)
	st2 := env.seedStudent(t, "Zawadi", b.ID)

	t.Run("unknown batch", func(t *testing.T) {
		_, err := env.svc.SummarizeBatch(ctx, 999, attendance.QueryRange{})
		assert.Equal(t, batch.ErrNotFound, err)
	})

	t.Run("no records", func(t *testing.T) {
		stats, err := env.svc.SummarizeBatch(ctx, b.ID, attendance.QueryRange{})
		assert.NoError(t, err)
		assert.Equal(t, []attendance.StudentStats{}, stats)
	})

	env.seedRecord(t, st1.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st1.ID, b.ID, "2021-03-02", attendance.StatusExcused)
	env.seedRecord(t, st2.ID, b.ID, "2021-03-01", attendance.StatusLate)
	env.seedRecord(t, st2.ID, b.ID, "2021-03-02", attendance.StatusAbsent)

	t.Run("excused gets no credit", func(t *testing.T) {
		stats, err := env.svc.SummarizeBatch(ctx, b.ID, attendance.QueryRange{})
		assert.NoError(t, err)
		if assert.Len(t, stats, 2) {
			assert.Equal(t, st1.ID, stats[0].StudentID)
			assert.Equal(t, "Amani", stats[0].StudentName)
			assert.Equal(t, 2, stats[0].TotalClasses)
			// present only: 1 / 2 * 100; the excused record earns nothing here
			assert.InDelta(t, 50, stats[0].PresentPercent, 1e-9)

			assert.Equal(t, st2.ID, stats[1].StudentID)
			assert.Equal(t, "Zawadi", stats[1].StudentName)
			// late counts: 1 / 2 * 100
			assert.InDelta(t, 50, stats[1].PresentPercent, 1e-9)
		}
	})

	t.Run("inverted range yields empty", func(t *testing.T) {
		rng := attendance.QueryRange{From: day(t, "2021-03-05"), To: day(t, "2021-03-01")}
		stats, err := env.svc.SummarizeBatch(ctx, b.ID, rng)
		assert.NoError(t, err)
		assert.Equal(t, []attendance.StudentStats{}, stats)
	})
}

func TestService_Mark(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A")
	st := env.seedStudent(t, "Amani", b.ID)

	t.Run("unknown student", func(t *testing.T) {
		na := attendance.NewAttendance{StudentID: 999, BatchID: b.ID, Date: "2021-03-01", Status: attendance.StatusPresent}
		_, err := env.svc.Mark(ctx, na, 1)
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("unknown batch", func(t *testing.T) {
		na := attendance.NewAttendance{StudentID: st.ID, BatchID: 999, Date: "2021-03-01", Status: attendance.StatusPresent}
		_, err := env.svc.Mark(ctx, na, 1)
		assert.Equal(t, batch.ErrNotFound, err)
	})

	t.Run("ok", func(t *testing.T) {
		na := attendance.NewAttendance{StudentID: st.ID, BatchID: b.ID, Date: "2021-03-01", Status: attendance.StatusLate}
		assert.NoError(t, na.Validate())
		att, err := env.svc.Mark(ctx, na, 42)
		assert.NoError(t, err)
		assert.NotZero(t, att.ID)
		assert.Equal(t, attendance.StatusLate, att.Status)
		assert.Equal(t, 42, att.MarkedByID)
		assert.Equal(t, day(t, "2021-03-01"), att.Date)
	})
}

func TestService_MarkBatch(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A")
	st1 := env.seedStudent(t, "Amani", b.ID)
	st2 := env.seedStudent(t, "Zawadi", b.ID)
	date := day(t, "2021-03-01")

	t.Run("unknown batch", func(t *testing.T) {
		_, err := env.svc.MarkBatch(ctx, 999, date, attendance.BulkMark{}, 1)
		assert.Equal(t, batch.ErrNotFound, err)
	})

	t.Run("unknown student aborts the whole mark", func(t *testing.T) {
		bm := attendance.BulkMark{Entries: []attendance.BulkEntry{
			{StudentID: st1.ID, Status: attendance.StatusPresent},
			{StudentID: 999, Status: attendance.StatusAbsent},
		}}
		_, err := env.svc.MarkBatch(ctx, b.ID, date, bm, 1)
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("ok", func(t *testing.T) {
		bm := attendance.BulkMark{Entries: []attendance.BulkEntry{
			{StudentID: st1.ID, Status: attendance.StatusPresent},
			{StudentID: st2.ID, Status: attendance.StatusAbsent, Note: "sick"},
		}}
		atts, err := env.svc.MarkBatch(ctx, b.ID, date, bm, 42)
		assert.NoError(t, err)
		if assert.Len(t, atts, 2) {
			for _, att := range atts {
				assert.NotZero(t, att.ID)
				assert.Equal(t, b.ID, att.BatchID)
				assert.Equal(t, date, att.Date)
				assert.Equal(t, 42, att.MarkedByID)
			}
		}

		listed, err := env.svc.ListByBatchDate(ctx, b.ID, date)
		assert.NoError(t, err)
		assert.Len(t, listed, 2)
	})
}
