package report

import (
	"context"

	"github.com/trezcool/shule/core/academic"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/fee"
)

// DashboardStats are the org-wide headline numbers. All values are recomputed
// from the store on every call; nothing here is cached.
type DashboardStats struct {
	TotalStudents            int     `json:"totalStudents"`
	ActiveBatches            int     `json:"activeBatches"`
	AttendancePercentOverall float64 `json:"attendancePercentOverall"`
	FeesDue                  float64 `json:"feesDue"`
}

type (
	// StudentCounter is the slice of the student domain the facade needs.
	StudentCounter interface {
		CountStudents(ctx context.Context) (int, error)
	}

	// BatchCounter is the slice of the batch domain the facade needs.
	BatchCounter interface {
		CountActiveBatches(ctx context.Context) (int, error)
	}

	// FeeSummer is the slice of the fee domain the facade needs.
	FeeSummer interface {
		SumFees(ctx context.Context) (fee.Totals, error)
	}

	// Service composes the aggregators into the consumer-facing report views.
	Service struct {
		attSvc   *attendance.Service
		acadSvc  *academic.Service
		students StudentCounter
		batches  BatchCounter
		fees     FeeSummer
	}
)

func NewService(attSvc *attendance.Service, acadSvc *academic.Service, students StudentCounter, batches BatchCounter, fees FeeSummer) *Service {
	return &Service{
		attSvc:   attSvc,
		acadSvc:  acadSvc,
		students: students,
		batches:  batches,
		fees:     fees,
	}
}

// Dashboard computes the org-wide stats.
// The attendance figure is the org-wide variant: (present + late) over all
// records, no excused weighting; 0 when no records exist anywhere.
// FeesDue = Σamount − Σpaid; negative on overpayment, not clamped.
func (svc *Service) Dashboard(ctx context.Context) (DashboardStats, error) {
	totalStudents, err := svc.students.CountStudents(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	activeBatches, err := svc.batches.CountActiveBatches(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	totals, err := svc.attSvc.StatusTotals(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	var attPercent float64
	if total := totals.Total(); total > 0 {
		attPercent = float64(totals.Present+totals.Late) / float64(total) * 100
	}

	feeTotals, err := svc.fees.SumFees(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalStudents:            totalStudents,
		ActiveBatches:            activeBatches,
		AttendancePercentOverall: attPercent,
		FeesDue:                  feeTotals.Due(),
	}, nil
}

// BatchAttendance reports per-student attendance stats for a batch.
func (svc *Service) BatchAttendance(ctx context.Context, batchID int, rng attendance.QueryRange) ([]attendance.StudentStats, error) {
	return svc.attSvc.SummarizeBatch(ctx, batchID, rng)
}

// StudentLevelSummary reports a student's per-level academic rollup.
func (svc *Service) StudentLevelSummary(ctx context.Context, studentID int) ([]academic.LevelSummary, error) {
	return svc.acadSvc.SummarizeStudentLevels(ctx, studentID)
}
