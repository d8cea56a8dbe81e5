package fee_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}

type testEnv struct {
	svc         *fee.Service
	feeRepo     fee.Repository
	studentRepo student.Repository
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	env := &testEnv{
		feeRepo:     dummydb.NewFeeRepository(db),
		studentRepo: dummydb.NewStudentRepository(db),
	}
	env.svc = fee.NewService(env.feeRepo, env.studentRepo)
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

func (env *testEnv) raise(t *testing.T, studentID int, amount float64) fee.Fee {
	t.Helper()

	nf := fee.NewFee{StudentID: studentID, Amount: amount, DueDate: "2021-04-01"}
	if err := nf.Validate(); err != nil {
		t.Fatalf("raise() failed, %v", err)
	}
	f, err := env.svc.Raise(context.Background(), nf)
	if err != nil {
		t.Fatalf("raise() failed, %v", err)
	}
	return f
}

func TestService_Raise(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	st := env.seedStudent(t, "Amani")

	t.Run("unknown student", func(t *testing.T) {
		nf := fee.NewFee{StudentID: 999, Amount: 100, DueDate: "2021-04-01"}
		assert.NoError(t, nf.Validate())
		_, err := env.svc.Raise(ctx, nf)
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("ok", func(t *testing.T) {
		f := env.raise(t, st.ID, 100)
		assert.NotZero(t, f.ID)
		assert.Equal(t, fee.StatusPending, f.Status)
		assert.NotEmpty(t, f.ReceiptNo)
		assert.Zero(t, f.PaidAmount)
	})
}

func TestService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	st := env.seedStudent(t, "Amani")
	f := env.raise(t, st.ID, 100)

	t.Run("unknown fee", func(t *testing.T) {
		_, err := env.svc.RecordPayment(ctx, 999, fee.Payment{Amount: 10})
		assert.Equal(t, fee.ErrNotFound, err)
	})

	t.Run("partial", func(t *testing.T) {
		got, err := env.svc.RecordPayment(ctx, f.ID, fee.Payment{Amount: 40})
		assert.NoError(t, err)
		assert.Equal(t, float64(40), got.PaidAmount)
		assert.Equal(t, fee.StatusPartial, got.Status)
	})

	t.Run("paid", func(t *testing.T) {
		got, err := env.svc.RecordPayment(ctx, f.ID, fee.Payment{Amount: 60})
		assert.NoError(t, err)
		assert.Equal(t, float64(100), got.PaidAmount)
		assert.Equal(t, fee.StatusPaid, got.Status)
	})

	t.Run("overpayment stays paid", func(t *testing.T) {
		got, err := env.svc.RecordPayment(ctx, f.ID, fee.Payment{Amount: 25})
		assert.NoError(t, err)
		assert.Equal(t, float64(125), got.PaidAmount)
		assert.Equal(t, fee.StatusPaid, got.Status)
	})
}

func TestService_Sum(t *testing.T) {
	ctx := context.Background()
	env := setup(t)
	st := env.seedStudent(t, "Amani")

	t.Run("empty", func(t *testing.T) {
		totals, err := env.svc.Sum(ctx)
		assert.NoError(t, err)
		assert.Zero(t, totals.Due())
	})

	f1 := env.raise(t, st.ID, 100)
	env.raise(t, st.ID, 50)

	t.Run("due is unclamped", func(t *testing.T) {
		totals, err := env.svc.Sum(ctx)
		assert.NoError(t, err)
		assert.Equal(t, float64(150), totals.Amount)
		assert.Equal(t, float64(150), totals.Due())

		// overpay the first fee past the org-wide total
		_, err = env.svc.RecordPayment(ctx, f1.ID, fee.Payment{Amount: 200})
		assert.NoError(t, err)

		totals, err = env.svc.Sum(ctx)
		assert.NoError(t, err)
		assert.Equal(t, float64(-50), totals.Due())
	})
}
