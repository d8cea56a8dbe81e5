package report_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/academic"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/storage/database/dummy"
)

type testEnv struct {
	svc         *report.Service
	attRepo     attendance.Repository
	testRepo    academic.Repository
	studentRepo student.Repository
	batchRepo   batch.Repository
	feeRepo     fee.Repository
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	env := &testEnv{
		attRepo:     dummydb.NewAttendanceRepository(db),
		testRepo:    dummydb.NewTestRepository(db),
		studentRepo: dummydb.NewStudentRepository(db),
		batchRepo:   dummydb.NewBatchRepository(db),
		feeRepo:     dummydb.NewFeeRepository(db),
	}
	attSvc := attendance.NewService(env.attRepo, env.studentRepo, env.batchRepo)
	acadSvc := academic.NewService(env.testRepo, env.studentRepo)
	env.svc = report.NewService(attSvc, acadSvc, env.studentRepo, env.batchRepo, env.feeRepo)
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

func (env *testEnv) seedBatch(t *testing.T, name string, isActive bool) batch.Batch {
	t.Helper()

	now := time.Now().UTC()
	b, err := env.batchRepo.CreateBatch(context.Background(), batch.Batch{
		Name:      name,
		Level:     1,
		Days:      1 << uint(time.Monday),
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  30,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seedBatch() failed, %v", err)
	}
	return b
}

func (env *testEnv) seedRecord(t *testing.T, studentID, batchID int, date string, status attendance.Status) {
	t.Helper()

	day, err := time.Parse(attendance.DateFormat, date)
	if err != nil {
		t.Fatalf("seedRecord() failed, %v", err)
	}
	_, err = env.attRepo.CreateAttendance(context.Background(), attendance.Attendance{
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
}

func (env *testEnv) seedFee(t *testing.T, studentID int, amount, paid float64) {
	t.Helper()

	now := time.Now().UTC()
	f := fee.Fee{
		StudentID:  studentID,
		Amount:     amount,
		PaidAmount: paid,
		DueDate:    now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.DeriveStatus()
	if _, err := env.feeRepo.CreateFee(context.Background(), f); err != nil {
		t.Fatalf("seedFee() failed, %v", err)
	}
}

func TestService_Dashboard(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	t.Run("empty org", func(t *testing.T) {
		stats, err := env.svc.Dashboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, report.DashboardStats{}, stats)
	})

	b1 := env.seedBatch(t, "Math A", true)
	env.seedBatch(t, "Math B", true)
	env.seedBatch(t, "Old Batch", false)
	st1 := env.seedStudent(t, "Amani", b1.ID)
	st2 := env.seedStudent(t, "Zawadi", b1.ID)

	env.seedRecord(t, st1.ID, b1.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st1.ID, b1.ID, "2021-03-02", attendance.StatusExcused)
	env.seedRecord(t, st2.ID, b1.ID, "2021-03-01", attendance.StatusLate)
	env.seedRecord(t, st2.ID, b1.ID, "2021-03-02", attendance.StatusAbsent)

	env.seedFee(t, st1.ID, 100, 30)
	env.seedFee(t, st2.ID, 50, 0)

	t.Run("computed", func(t *testing.T) {
		stats, err := env.svc.Dashboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, stats.TotalStudents)
		assert.Equal(t, 2, stats.ActiveBatches)
		// (present + late) / total: (1 + 1) / 4; excused earns nothing here
		assert.InDelta(t, 50, stats.AttendancePercentOverall, 1e-9)
		// 150 - 30
		assert.InDelta(t, 120, stats.FeesDue, 1e-9)
	})

	t.Run("overpayment drives FeesDue negative", func(t *testing.T) {
		env.seedFee(t, st1.ID, 10, 200)

		stats, err := env.svc.Dashboard(ctx)
		assert.NoError(t, err)
		// 160 - 230
		assert.InDelta(t, -70, stats.FeesDue, 1e-9)
	})

	t.Run("repeat reads match", func(t *testing.T) {
		first, err := env.svc.Dashboard(ctx)
		assert.NoError(t, err)
		second, err := env.svc.Dashboard(ctx)
		assert.NoError(t, err)
		assert.Equal(t, first, second)

		stats1, err := env.svc.BatchAttendance(ctx, b1.ID, attendance.QueryRange{})
		assert.NoError(t, err)
		stats2, err := env.svc.BatchAttendance(ctx, b1.ID, attendance.QueryRange{})
		assert.NoError(t, err)
		assert.Equal(t, stats1, stats2)
	})
}

func TestService_ExportBatchAttendance(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A", true)
	st := env.seedStudent(t, "Amani", b.ID)

	env.seedRecord(t, st.ID, b.ID, "2021-03-01", attendance.StatusPresent)
	env.seedRecord(t, st.ID, b.ID, "2021-03-02", attendance.StatusAbsent)

	t.Run("unknown batch", func(t *testing.T) {
		_, err := env.svc.ExportBatchAttendance(ctx, 999, attendance.QueryRange{})
		assert.Equal(t, batch.ErrNotFound, err)
	})

	t.Run("workbook rows", func(t *testing.T) {
		buf, err := env.svc.ExportBatchAttendance(ctx, b.ID, attendance.QueryRange{})
		assert.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		assert.NoError(t, err)
		rows, err := f.GetRows("Attendance")
		assert.NoError(t, err)
		if assert.Len(t, rows, 2) {
			assert.Equal(t, "Student", rows[0][1])
			assert.Equal(t, "Amani", rows[1][1])
			assert.Equal(t, "2", rows[1][2])
			assert.Equal(t, "50.0", rows[1][7])
		}
	})
}
