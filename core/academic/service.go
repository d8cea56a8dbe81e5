package academic

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/trezcool/shule/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("test not found")
)

type (
	Repository interface {
		CreateTest(ctx context.Context, t Test) (Test, error)
		GetTestByID(ctx context.Context, id int) (Test, error)
		// QueryStudentTests returns a student's tests in descending TakenAt
		// order. The level rollup depends on this ordering to pick each
		// level's most recent test date; do not relax it.
		QueryStudentTests(ctx context.Context, studentID int) ([]Test, error)
	}

	// StudentDirectory is the slice of the student domain this aggregator needs.
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

// RecordTest computes the test's derived totals once and persists them:
// percent = Σobtained / Σtotal × 100 (0 when the denominator is 0).
// The stored percent is authoritative from here on.
func (svc *Service) RecordTest(ctx context.Context, nt NewTest) (Test, error) {
	ok, err := svc.students.StudentExists(ctx, nt.StudentID)
	if err != nil {
		return Test{}, err
	}
	if !ok {
		return Test{}, student.ErrNotFound
	}

	var obtained, possible float64
	for _, sub := range nt.Subjects {
		obtained += sub.Obtained
		possible += sub.Total
	}
	var percent float64
	if possible > 0 {
		percent = obtained / possible * 100
	}

	t := Test{
		StudentID:     nt.StudentID,
		Level:         nt.Level,
		Name:          nt.Name,
		TakenAt:       nt.Day(),
		Subjects:      nt.Subjects,
		TotalObtained: obtained,
		TotalPossible: possible,
		Percent:       percent,
		CreatedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateTest(ctx, t)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Test, error) {
	return svc.repo.GetTestByID(ctx, id)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Test, error) {
	ok, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, student.ErrNotFound
	}
	return svc.repo.QueryStudentTests(ctx, studentID)
}

// levelAcc accumulates one level's running totals while grouping.
type levelAcc struct {
	testsCount   int
	totalPercent float64
	lastTestDate time.Time
}

// SummarizeStudentLevels groups a student's tests by level. Records arrive in
// descending TakenAt order, so the first record seen per level supplies
// LastTestDate. Levels without tests never appear.
func (svc *Service) SummarizeStudentLevels(ctx context.Context, studentID int) ([]LevelSummary, error) {
	ok, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, student.ErrNotFound
	}

	tests, err := svc.repo.QueryStudentTests(ctx, studentID)
	if err != nil {
		return nil, err
	}

	accs := make(map[int]*levelAcc)
	levels := make([]int, 0)
	for _, t := range tests {
		acc, ok := accs[t.Level]
		if !ok {
			acc = &levelAcc{lastTestDate: t.TakenAt} // most recent first
			accs[t.Level] = acc
			levels = append(levels, t.Level)
		}
		acc.testsCount++
		acc.totalPercent += t.Percent
	}

	sort.Ints(levels)
	summaries := make([]LevelSummary, 0, len(levels))
	for _, lvl := range levels {
		acc := accs[lvl]
		summaries = append(summaries, LevelSummary{
			Level:        lvl,
			TestsCount:   acc.testsCount,
			LastTestDate: acc.lastTestDate,
			AvgPercent:   acc.totalPercent / float64(acc.testsCount),
		})
	}
	return summaries, nil
}
