package student

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	batchFullText = "batch is at capacity"
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, st Student) (Student, error)
		GetStudentByID(ctx context.Context, id int) (Student, error)
		StudentExists(ctx context.Context, id int) (bool, error)
		GetStudentNames(ctx context.Context, ids []int) (map[int]string, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name, Student.Phone or Student.Email.
		FilterStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		UpdateStudent(ctx context.Context, st Student) (Student, error)
		CountStudents(ctx context.Context) (int, error)
		CountStudentsInBatch(ctx context.Context, batchID int) (int, error)
	}

	// BatchInfo is the slice of the batch domain the enrollment check needs.
	BatchInfo interface {
		BatchExists(ctx context.Context, id int) (bool, error)
		BatchCapacity(ctx context.Context, id int) (int, error)
	}

	Service struct {
		repo    Repository
		batches BatchInfo
	}
)

func NewService(repo Repository, batches BatchInfo) *Service {
	return &Service{repo: repo, batches: batches}
}

// checkBatch verifies the target batch exists and has a free seat.
// The capacity bound is checked at enrollment only; it is not structurally enforced.
func (svc *Service) checkBatch(ctx context.Context, batchID int) error {
	if batchID == 0 {
		return nil
	}
	ok, err := svc.batches.BatchExists(ctx, batchID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "batch_id", Error: "batch not found"})
	}

	capacity, err := svc.batches.BatchCapacity(ctx, batchID)
	if err != nil {
		return err
	}
	enrolled, err := svc.repo.CountStudentsInBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if enrolled >= capacity {
		return core.NewValidationError(nil, core.FieldError{Field: "batch_id", Error: batchFullText})
	}
	return nil
}

func (svc *Service) Enroll(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.checkBatch(ctx, ns.BatchID); err != nil {
		return Student{}, err
	}

	now := time.Now().UTC()
	st := Student{
		Name:       ns.Name,
		Phone:      ns.Phone,
		Email:      ns.Email,
		Level:      ns.Level,
		BatchID:    ns.BatchID,
		Status:     StatusActive,
		ReferredBy: ns.ReferredBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateStudent(ctx, st)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err := us.Validate(orig); err != nil {
		return Student{}, err
	}

	batchID := orig.BatchID
	if us.BatchID != nil {
		batchID = *us.BatchID
	}
	if batchID != orig.BatchID {
		if err := svc.checkBatch(ctx, batchID); err != nil {
			return Student{}, err
		}
	}

	st := Student{
		ID:         id,
		Name:       us.Name,
		Phone:      us.Phone,
		Email:      us.Email,
		Level:      us.Level,
		BatchID:    batchID,
		Status:     us.Status,
		ReferredBy: orig.ReferredBy,
		CreatedAt:  orig.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, st)
}

// Deactivate soft-deletes a Student by flipping their status.
func (svc *Service) Deactivate(ctx context.Context, id int) (Student, error) {
	return svc.Update(ctx, id, UpdateStudent{Status: StatusInactive})
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountStudents(ctx)
}
