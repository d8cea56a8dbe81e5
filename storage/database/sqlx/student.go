package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	ID         int         `db:"id"`
	Name       string      `db:"name"`
	Phone      null.String `db:"phone"`
	Email      null.String `db:"email"`
	Level      int         `db:"level"`
	BatchID    null.Int    `db:"batch_id"`
	Status     string      `db:"status"`
	ReferredBy null.String `db:"referred_by"`
	CreatedAt  time.Time   `db:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at"`
}

func (r studentRow) toDomain() student.Student {
	return student.Student{
		ID:         r.ID,
		Name:       r.Name,
		Phone:      r.Phone.String,
		Email:      r.Email.String,
		Level:      r.Level,
		BatchID:    r.BatchID.Int,
		Status:     r.Status,
		ReferredBy: r.ReferredBy.String,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

var studentColumns = []string{"id", "name", "phone", "email", "level", "batch_id", "status", "referred_by", "created_at", "updated_at"}

func (repo studentRepository) CreateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	q, args, err := psql.Insert("student").
		Columns("name", "phone", "email", "level", "batch_id", "status", "referred_by", "created_at", "updated_at").
		Values(
			st.Name,
			null.NewString(st.Phone, st.Phone != ""),
			null.NewString(st.Email, st.Email != ""),
			st.Level,
			null.NewInt(st.BatchID, st.BatchID != 0),
			st.Status,
			null.NewString(st.ReferredBy, st.ReferredBy != ""),
			st.CreatedAt,
			st.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&st.ID); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return st, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int) (student.Student, error) {
	q, args, err := psql.Select(studentColumns...).From("student").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building select")
	}
	var row studentRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by ID")
	}
	return row.toDomain(), nil
}

func (repo studentRepository) StudentExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM student WHERE id = $1)", id)
	return exists, errors.Wrap(err, "checking student existence")
}

func (repo studentRepository) GetStudentNames(ctx context.Context, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	q, args, err := psql.Select("id", "name").From("student").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying student names")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int
		var name string
		if err = rows.Scan(&id, &name); err != nil {
			return nil, errors.Wrap(err, "scanning student name")
		}
		names[id] = name
	}
	return names, errors.Wrap(rows.Err(), "querying student names")
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	qb := psql.Select(studentColumns...).From("student")

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{
			sq.Expr("name ILIKE ?", val),
			sq.Expr("phone ILIKE ?", val),
			sq.Expr("email ILIKE ?", val),
		})
	}
	if filter.Status != "" {
		qb = qb.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Level != 0 {
		qb = qb.Where(sq.Eq{"level": filter.Level})
	}
	if filter.BatchID != 0 {
		qb = qb.Where(sq.Eq{"batch_id": filter.BatchID})
	}

	q, args, err := qb.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []studentRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toDomain())
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, st student.Student) (student.Student, error) {
	q, args, err := psql.Update("student").
		Set("name", st.Name).
		Set("phone", null.NewString(st.Phone, st.Phone != "")).
		Set("email", null.NewString(st.Email, st.Email != "")).
		Set("level", st.Level).
		Set("batch_id", null.NewInt(st.BatchID, st.BatchID != 0)).
		Set("status", st.Status).
		Set("updated_at", st.UpdatedAt).
		Where(sq.Eq{"id": st.ID}).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building update")
	}

	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (repo studentRepository) CountStudents(ctx context.Context) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM student")
	return count, errors.Wrap(err, "counting students")
}

func (repo studentRepository) CountStudentsInBatch(ctx context.Context, batchID int) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM student WHERE batch_id = $1 AND status = $2", batchID, student.StatusActive)
	return count, errors.Wrap(err, "counting batch students")
}
