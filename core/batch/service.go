package batch

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound = errors.New("batch not found")
)

type (
	Repository interface {
		CreateBatch(ctx context.Context, b Batch) (Batch, error)
		GetBatchByID(ctx context.Context, id int) (Batch, error)
		BatchExists(ctx context.Context, id int) (bool, error)
		// FilterBatches applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Batch.Name.
		FilterBatches(ctx context.Context, filter QueryFilter) ([]Batch, error)
		UpdateBatch(ctx context.Context, b Batch) (Batch, error)
		CountActiveBatches(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nb NewBatch) (Batch, error) {
	now := time.Now().UTC()
	b := Batch{
		Name:      nb.Name,
		Level:     nb.Level,
		TeacherID: nb.TeacherID,
		Days:      nb.Days,
		StartTime: nb.StartTime,
		EndTime:   nb.EndTime,
		Capacity:  nb.Capacity,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateBatch(ctx, b)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Batch, error) {
	return svc.repo.GetBatchByID(ctx, id)
}

// BatchCapacity reports the seat bound of a batch; used by the enrollment check.
func (svc *Service) BatchCapacity(ctx context.Context, id int) (int, error) {
	b, err := svc.repo.GetBatchByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return b.Capacity, nil
}

// BatchExists implements student.BatchInfo.
func (svc *Service) BatchExists(ctx context.Context, id int) (bool, error) {
	return svc.repo.BatchExists(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Batch, error) {
	return svc.repo.FilterBatches(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id int, ub UpdateBatch) (Batch, error) {
	orig, err := svc.repo.GetBatchByID(ctx, id)
	if err != nil {
		return Batch{}, err
	}
	if err := ub.Validate(orig); err != nil {
		return Batch{}, err
	}

	teacherID := orig.TeacherID
	if ub.TeacherID != nil {
		teacherID = *ub.TeacherID
	}
	isActive := orig.IsActive
	if ub.IsActive != nil {
		isActive = *ub.IsActive
	}

	b := Batch{
		ID:        id,
		Name:      ub.Name,
		Level:     ub.Level,
		TeacherID: teacherID,
		Days:      ub.Days,
		StartTime: ub.StartTime,
		EndTime:   ub.EndTime,
		Capacity:  ub.Capacity,
		IsActive:  isActive,
		CreatedAt: orig.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateBatch(ctx, b)
}

func (svc *Service) CountActive(ctx context.Context) (int, error) {
	return svc.repo.CountActiveBatches(ctx)
}
