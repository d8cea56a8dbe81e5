package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/academic"
)

type testRepository struct {
	db *sqlx.DB
}

var _ academic.Repository = (*testRepository)(nil) // interface compliance check

func NewTestRepository(db *sqlx.DB) *testRepository {
	return &testRepository{db: db}
}

type testRow struct {
	ID            int            `db:"id"`
	StudentID     int            `db:"student_id"`
	Level         int            `db:"level"`
	Name          string         `db:"name"`
	TakenAt       time.Time      `db:"taken_at"`
	Subjects      types.JSONText `db:"subjects"`
	TotalObtained float64        `db:"total_obtained"`
	TotalPossible float64        `db:"total_possible"`
	Percent       float64        `db:"percent"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (r testRow) toDomain() (academic.Test, error) {
	var subjects []academic.SubjectScore
	if err := json.Unmarshal(r.Subjects, &subjects); err != nil {
		return academic.Test{}, errors.Wrap(err, "decoding test subjects")
	}
	return academic.Test{
		ID:            r.ID,
		StudentID:     r.StudentID,
		Level:         r.Level,
		Name:          r.Name,
		TakenAt:       r.TakenAt,
		Subjects:      subjects,
		TotalObtained: r.TotalObtained,
		TotalPossible: r.TotalPossible,
		Percent:       r.Percent,
		CreatedAt:     r.CreatedAt,
	}, nil
}

var testColumns = []string{"id", "student_id", "level", "name", "taken_at", "subjects", "total_obtained", "total_possible", "percent", "created_at"}

func (repo testRepository) CreateTest(ctx context.Context, t academic.Test) (academic.Test, error) {
	subjects, err := json.Marshal(t.Subjects)
	if err != nil {
		return academic.Test{}, errors.Wrap(err, "encoding test subjects")
	}

	q, args, err := psql.Insert("test").
		Columns("student_id", "level", "name", "taken_at", "subjects", "total_obtained", "total_possible", "percent", "created_at").
		Values(
			t.StudentID,
			t.Level,
			t.Name,
			t.TakenAt,
			types.JSONText(subjects),
			t.TotalObtained,
			t.TotalPossible,
			t.Percent,
			t.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return academic.Test{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&t.ID); err != nil {
		return academic.Test{}, errors.Wrap(err, "inserting test")
	}
	return t, nil
}

func (repo testRepository) GetTestByID(ctx context.Context, id int) (academic.Test, error) {
	q, args, err := psql.Select(testColumns...).From("test").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return academic.Test{}, errors.Wrap(err, "building select")
	}
	var row testRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return academic.Test{}, trapNoRowsErr(err, academic.ErrNotFound, "finding test by ID")
	}
	return row.toDomain()
}

func (repo testRepository) QueryStudentTests(ctx context.Context, studentID int) ([]academic.Test, error) {
	q, args, err := psql.Select(testColumns...).From("test").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("taken_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []testRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying tests")
	}

	tests := make([]academic.Test, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, nil
}
