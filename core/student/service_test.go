package student_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}

type testEnv struct {
	svc         *student.Service
	studentRepo student.Repository
	batchRepo   batch.Repository
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	env := &testEnv{
		studentRepo: dummydb.NewStudentRepository(db),
		batchRepo:   dummydb.NewBatchRepository(db),
	}
	env.svc = student.NewService(env.studentRepo, batch.NewService(env.batchRepo))
	return env
}

func (env *testEnv) seedBatch(t *testing.T, name string, capacity int) batch.Batch {
	t.Helper()

	now := time.Now().UTC()
	b, err := env.batchRepo.CreateBatch(context.Background(), batch.Batch{
		Name:      name,
		Level:     1,
		Days:      1 << uint(time.Monday),
		StartTime: "09:00",
		EndTime:   "10:00",
		Capacity:  capacity,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seedBatch() failed, %v", err)
	}
	return b
}

func fieldError(err error, field string) (string, bool) {
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		return "", false
	}
	for _, fErr := range vErr.Fields {
		if fErr.Field == field {
			return fErr.Error, true
		}
	}
	return "", false
}

func TestService_Enroll(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A", 1)

	t.Run("unknown batch", func(t *testing.T) {
		_, err := env.svc.Enroll(ctx, student.NewStudent{Name: "Amani", Level: 1, BatchID: 999})
		msg, ok := fieldError(err, "batch_id")
		assert.True(t, ok)
		assert.Equal(t, "batch not found", msg)
	})

	t.Run("ok", func(t *testing.T) {
		st, err := env.svc.Enroll(ctx, student.NewStudent{Name: "Amani", Level: 1, BatchID: b.ID})
		assert.NoError(t, err)
		assert.NotZero(t, st.ID)
		assert.Equal(t, student.StatusActive, st.Status)
	})

	t.Run("batch at capacity", func(t *testing.T) {
		_, err := env.svc.Enroll(ctx, student.NewStudent{Name: "Zawadi", Level: 1, BatchID: b.ID})
		msg, ok := fieldError(err, "batch_id")
		assert.True(t, ok)
		assert.Equal(t, "batch is at capacity", msg)
	})

	t.Run("unassigned is fine", func(t *testing.T) {
		st, err := env.svc.Enroll(ctx, student.NewStudent{Name: "Zawadi", Level: 1})
		assert.NoError(t, err)
		assert.Zero(t, st.BatchID)
	})
}

func TestService_Deactivate(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b := env.seedBatch(t, "Math A", 10)

	st, err := env.svc.Enroll(ctx, student.NewStudent{Name: "Amani", Level: 1, BatchID: b.ID})
	assert.NoError(t, err)

	t.Run("unknown student", func(t *testing.T) {
		_, err := env.svc.Deactivate(ctx, 999)
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("flips status", func(t *testing.T) {
		got, err := env.svc.Deactivate(ctx, st.ID)
		assert.NoError(t, err)
		assert.Equal(t, student.StatusInactive, got.Status)
		assert.False(t, got.IsActive())

		// still retrievable; no physical delete
		got, err = env.svc.GetByID(ctx, st.ID)
		assert.NoError(t, err)
		assert.Equal(t, student.StatusInactive, got.Status)
	})
}

func TestService_Update_batchMove(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	b1 := env.seedBatch(t, "Math A", 10)
	b2 := env.seedBatch(t, "Math B", 1)

	st, err := env.svc.Enroll(ctx, student.NewStudent{Name: "Amani", Level: 1, BatchID: b1.ID})
	assert.NoError(t, err)
	_, err = env.svc.Enroll(ctx, student.NewStudent{Name: "Zawadi", Level: 1, BatchID: b2.ID})
	assert.NoError(t, err)

	t.Run("target batch full", func(t *testing.T) {
		_, err := env.svc.Update(ctx, st.ID, student.UpdateStudent{BatchID: &b2.ID})
		msg, ok := fieldError(err, "batch_id")
		assert.True(t, ok)
		assert.Equal(t, "batch is at capacity", msg)
	})

	t.Run("same batch skips the capacity check", func(t *testing.T) {
		got, err := env.svc.Update(ctx, st.ID, student.UpdateStudent{Name: "Amani K"})
		assert.NoError(t, err)
		assert.Equal(t, "Amani K", got.Name)
		assert.Equal(t, b1.ID, got.BatchID)
	})
}
