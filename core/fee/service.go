package fee

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("fee not found")
)

type (
	Repository interface {
		CreateFee(ctx context.Context, f Fee) (Fee, error)
		GetFeeByID(ctx context.Context, id int) (Fee, error)
		QueryStudentFees(ctx context.Context, studentID int) ([]Fee, error)
		UpdateFee(ctx context.Context, f Fee) (Fee, error)
		// SumFees aggregates amount/paid across all records store-side.
		SumFees(ctx context.Context) (Totals, error)
	}

	// StudentDirectory is the slice of the student domain this service needs.
	StudentDirectory interface {
		StudentExists(ctx context.Context, id int) (bool, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
	}
)

func NewService(repo Repository, students StudentDirectory) *Service {
	return &Service{repo: repo, students: students}
}

func (svc *Service) Raise(ctx context.Context, nf NewFee) (Fee, error) {
	ok, err := svc.students.StudentExists(ctx, nf.StudentID)
	if err != nil {
		return Fee{}, err
	}
	if !ok {
		return Fee{}, student.ErrNotFound
	}

	now := time.Now().UTC()
	f := Fee{
		StudentID: nf.StudentID,
		Amount:    nf.Amount,
		DueDate:   nf.Due(),
		ReceiptNo: uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.DeriveStatus()
	return svc.repo.CreateFee(ctx, f)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Fee, error) {
	return svc.repo.GetFeeByID(ctx, id)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Fee, error) {
	ok, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, student.ErrNotFound
	}
	return svc.repo.QueryStudentFees(ctx, studentID)
}

// RecordPayment adds a payment to a Fee and re-derives its status.
func (svc *Service) RecordPayment(ctx context.Context, id int, p Payment) (Fee, error) {
	f, err := svc.repo.GetFeeByID(ctx, id)
	if err != nil {
		return Fee{}, err
	}
	f.PaidAmount += p.Amount
	f.DeriveStatus()
	f.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFee(ctx, f)
}

// Sum reports org-wide fee totals; used by the dashboard.
func (svc *Service) Sum(ctx context.Context) (Totals, error) {
	return svc.repo.SumFees(ctx)
}
