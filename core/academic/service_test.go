package academic_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/academic"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}

type testEnv struct {
	svc         *academic.Service
	testRepo    academic.Repository
	studentRepo student.Repository
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	env := &testEnv{
		testRepo:    dummydb.NewTestRepository(db),
		studentRepo: dummydb.NewStudentRepository(db),
	}
	env.svc = academic.NewService(env.testRepo, env.studentRepo)
	return env
}

func (env *testEnv) seedStudent(t *testing.T, name string) student.Student {
	t.Helper()

	now := time.Now().UTC()
	st, err := env.studentRepo.CreateStudent(context.Background(), student.Student{
		Name:      name,
		Level:     1,
		Status:    student.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seedStudent() failed, %v", err)
	}
	return st
}

func (env *testEnv) record(t *testing.T, studentID, level int, name, takenAt string, subjects ...academic.SubjectScore) academic.Test {
	t.Helper()

	nt := academic.NewTest{
		StudentID: studentID,
		Level:     level,
		Name:      name,
		TakenAt:   takenAt,
		Subjects:  subjects,
	}
	if err := nt.Validate(); err != nil {
		t.Fatalf("record() failed, %v", err)
	}
	tst, err := env.svc.RecordTest(context.Background(), nt)
	if err != nil {
		t.Fatalf("record() failed, %v", err)
	}
	return tst
}

func day(t *testing.T, date string) time.Time {
	t.Helper()

	d, err := time.Parse(academic.DateFormat, date)
	if err != nil {
		t.Fatalf("day() failed, %v", err)
	}
	return d
}

func TestService_RecordTest(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	st := env.seedStudent(t, "Amani")

	t.Run("unknown student", func(t *testing.T) {
		nt := academic.NewTest{StudentID: 999, Level: 1, Name: "Midterm", TakenAt: "2021-03-01",
			Subjects: []academic.SubjectScore{{Name: "Math", Obtained: 10, Total: 20}}}
		assert.NoError(t, nt.Validate())
		_, err := env.svc.RecordTest(ctx, nt)
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("percent computed once at entry", func(t *testing.T) {
		tst := env.record(t, st.ID, 1, "Midterm", "2021-03-01",
			academic.SubjectScore{Name: "Math", Obtained: 15, Total: 20},
			academic.SubjectScore{Name: "Science", Obtained: 25, Total: 30},
		)
		assert.NotZero(t, tst.ID)
		assert.Equal(t, float64(40), tst.TotalObtained)
		assert.Equal(t, float64(50), tst.TotalPossible)
		assert.InDelta(t, 80, tst.Percent, 1e-9)

		got, err := env.svc.GetByID(ctx, tst.ID)
		assert.NoError(t, err)
		assert.InDelta(t, 80, got.Percent, 1e-9)
	})
}

func TestService_SummarizeStudentLevels(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	st := env.seedStudent(t, "Amani")

	t.Run("unknown student", func(t *testing.T) {
		_, err := env.svc.SummarizeStudentLevels(ctx, 999)
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("no tests", func(t *testing.T) {
		summaries, err := env.svc.SummarizeStudentLevels(ctx, st.ID)
		assert.NoError(t, err)
		assert.Equal(t, []academic.LevelSummary{}, summaries)
	})

	env.record(t, st.ID, 1, "Week 1", "2021-01-10", academic.SubjectScore{Name: "Math", Obtained: 10, Total: 20}) // 50%
	env.record(t, st.ID, 1, "Week 5", "2021-02-10", academic.SubjectScore{Name: "Math", Obtained: 18, Total: 20}) // 90%
	env.record(t, st.ID, 2, "Entry", "2021-03-01", academic.SubjectScore{Name: "Math", Obtained: 12, Total: 20})  // 60%

	t.Run("grouped by level", func(t *testing.T) {
		summaries, err := env.svc.SummarizeStudentLevels(ctx, st.ID)
		assert.NoError(t, err)
		if assert.Len(t, summaries, 2) {
			lvl1, lvl2 := summaries[0], summaries[1]

			assert.Equal(t, 1, lvl1.Level)
			assert.Equal(t, 2, lvl1.TestsCount)
			assert.InDelta(t, 70, lvl1.AvgPercent, 1e-9)
			// the most recent test per level supplies the date
			assert.Equal(t, day(t, "2021-02-10"), lvl1.LastTestDate)

			assert.Equal(t, 2, lvl2.Level)
			assert.Equal(t, 1, lvl2.TestsCount)
			assert.InDelta(t, 60, lvl2.AvgPercent, 1e-9)
			assert.Equal(t, day(t, "2021-03-01"), lvl2.LastTestDate)
		}
	})
}

func TestService_QueryByStudent(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	st := env.seedStudent(t, "Amani")

	env.record(t, st.ID, 1, "Week 1", "2021-01-10", academic.SubjectScore{Name: "Math", Obtained: 10, Total: 20})
	env.record(t, st.ID, 1, "Week 5", "2021-02-10", academic.SubjectScore{Name: "Math", Obtained: 18, Total: 20})

	tests, err := env.svc.QueryByStudent(ctx, st.ID)
	assert.NoError(t, err)
	if assert.Len(t, tests, 2) {
		// most recent first
		assert.Equal(t, "Week 5", tests[0].Name)
		assert.Equal(t, "Week 1", tests[1].Name)
	}
}
