package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

type attendanceRow struct {
	ID         int         `db:"id"`
	StudentID  int         `db:"student_id"`
	BatchID    int         `db:"batch_id"`
	Date       time.Time   `db:"date"`
	Status     string      `db:"status"`
	Note       null.String `db:"note"`
	MarkedByID null.Int    `db:"marked_by_id"`
	CreatedAt  time.Time   `db:"created_at"`
}

func (r attendanceRow) toDomain() attendance.Attendance {
	return attendance.Attendance{
		ID:         r.ID,
		StudentID:  r.StudentID,
		BatchID:    r.BatchID,
		Date:       r.Date,
		Status:     attendance.Status(r.Status),
		Note:       r.Note.String,
		MarkedByID: r.MarkedByID.Int,
		CreatedAt:  r.CreatedAt,
	}
}

var attendanceColumns = []string{"id", "student_id", "batch_id", "date", "status", "note", "marked_by_id", "created_at"}

func (repo attendanceRepository) CreateAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q, args, err := psql.Insert("attendance").
		Columns("student_id", "batch_id", "date", "status", "note", "marked_by_id", "created_at").
		Values(
			att.StudentID,
			att.BatchID,
			att.Date,
			string(att.Status),
			null.NewString(att.Note, att.Note != ""),
			null.NewInt(att.MarkedByID, att.MarkedByID != 0),
			att.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&att.ID); err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "inserting attendance")
	}
	return att, nil
}

func (repo attendanceRepository) CreateAttendances(ctx context.Context, atts []attendance.Attendance) ([]attendance.Attendance, error) {
	if len(atts) == 0 {
		return atts, nil
	}

	qb := psql.Insert("attendance").
		Columns("student_id", "batch_id", "date", "status", "note", "marked_by_id", "created_at")
	for _, att := range atts {
		qb = qb.Values(
			att.StudentID,
			att.BatchID,
			att.Date,
			string(att.Status),
			null.NewString(att.Note, att.Note != ""),
			null.NewInt(att.MarkedByID, att.MarkedByID != 0),
			att.CreatedAt,
		)
	}
	q, args, err := qb.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building insert")
	}

	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "inserting attendances")
	}
	defer func() { _ = rows.Close() }()

	for i := 0; rows.Next(); i++ {
		if err = rows.Scan(&atts[i].ID); err != nil {
			return nil, errors.Wrap(err, "scanning attendance ID")
		}
	}
	return atts, errors.Wrap(rows.Err(), "inserting attendances")
}

func rangeConds(qb sq.SelectBuilder, rng attendance.QueryRange) sq.SelectBuilder {
	if !rng.From.IsZero() {
		qb = qb.Where(sq.GtOrEq{"date": rng.From})
	}
	if !rng.To.IsZero() {
		qb = qb.Where(sq.LtOrEq{"date": rng.To})
	}
	return qb
}

func (repo attendanceRepository) queryAttendance(ctx context.Context, qb sq.SelectBuilder) ([]attendance.Attendance, error) {
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []attendanceRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}

	atts := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		atts = append(atts, row.toDomain())
	}
	return atts, nil
}

func (repo attendanceRepository) QueryStudentAttendance(ctx context.Context, studentID int, rng attendance.QueryRange) ([]attendance.Attendance, error) {
	qb := psql.Select(attendanceColumns...).From("attendance").Where(sq.Eq{"student_id": studentID})
	return repo.queryAttendance(ctx, rangeConds(qb, rng).OrderBy("date DESC", "id DESC"))
}

func (repo attendanceRepository) QueryBatchAttendance(ctx context.Context, batchID int, rng attendance.QueryRange) ([]attendance.Attendance, error) {
	qb := psql.Select(attendanceColumns...).From("attendance").Where(sq.Eq{"batch_id": batchID})
	return repo.queryAttendance(ctx, rangeConds(qb, rng).OrderBy("date DESC", "id DESC"))
}

func (repo attendanceRepository) QueryBatchAttendanceByDate(ctx context.Context, batchID int, date time.Time) ([]attendance.Attendance, error) {
	qb := psql.Select(attendanceColumns...).From("attendance").
		Where(sq.Eq{"batch_id": batchID, "date": date}).
		OrderBy("student_id ASC", "id ASC")
	return repo.queryAttendance(ctx, qb)
}

func (repo attendanceRepository) CountByStatus(ctx context.Context) (attendance.StatusTotals, error) {
	var totals attendance.StatusTotals

	rows, err := repo.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM attendance GROUP BY status")
	if err != nil {
		return totals, errors.Wrap(err, "counting attendance by status")
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var status string
		var count int
		if err = rows.Scan(&status, &count); err != nil {
			return totals, errors.Wrap(err, "scanning status count")
		}
		switch attendance.Status(status) {
		case attendance.StatusPresent:
			totals.Present = count
		case attendance.StatusAbsent:
			totals.Absent = count
		case attendance.StatusLate:
			totals.Late = count
		case attendance.StatusExcused:
			totals.Excused = count
		}
	}
	return totals, errors.Wrap(rows.Err(), "counting attendance by status")
}
