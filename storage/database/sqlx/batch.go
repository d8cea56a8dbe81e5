package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/batch"
)

type batchRepository struct {
	db *sqlx.DB
}

var _ batch.Repository = (*batchRepository)(nil) // interface compliance check

func NewBatchRepository(db *sqlx.DB) *batchRepository {
	return &batchRepository{db: db}
}

type batchRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Level     int       `db:"level"`
	TeacherID null.Int  `db:"teacher_id"`
	Days      int16     `db:"days"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	Capacity  int       `db:"capacity"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r batchRow) toDomain() batch.Batch {
	return batch.Batch{
		ID:        r.ID,
		Name:      r.Name,
		Level:     r.Level,
		TeacherID: r.TeacherID.Int,
		Days:      batch.DayMask(r.Days),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Capacity:  r.Capacity,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

var batchColumns = []string{"id", "name", "level", "teacher_id", "days", "start_time", "end_time", "capacity", "is_active", "created_at", "updated_at"}

func (repo batchRepository) CreateBatch(ctx context.Context, b batch.Batch) (batch.Batch, error) {
	q, args, err := psql.Insert("batch").
		Columns("name", "level", "teacher_id", "days", "start_time", "end_time", "capacity", "is_active", "created_at", "updated_at").
		Values(
			b.Name,
			b.Level,
			null.NewInt(b.TeacherID, b.TeacherID != 0),
			int16(b.Days),
			b.StartTime,
			b.EndTime,
			b.Capacity,
			b.IsActive,
			b.CreatedAt,
			b.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&b.ID); err != nil {
		return batch.Batch{}, errors.Wrap(err, "inserting batch")
	}
	return b, nil
}

func (repo batchRepository) GetBatchByID(ctx context.Context, id int) (batch.Batch, error) {
	q, args, err := psql.Select(batchColumns...).From("batch").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "building select")
	}
	var row batchRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return batch.Batch{}, trapNoRowsErr(err, batch.ErrNotFound, "finding batch by ID")
	}
	return row.toDomain(), nil
}

func (repo batchRepository) BatchExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM batch WHERE id = $1)", id)
	return exists, errors.Wrap(err, "checking batch existence")
}

func (repo batchRepository) FilterBatches(ctx context.Context, filter batch.QueryFilter) ([]batch.Batch, error) {
	qb := psql.Select(batchColumns...).From("batch")

	if filter.Search != "" {
		qb = qb.Where(sq.Expr("name ILIKE ?", "%"+filter.Search+"%"))
	}
	if filter.Level != 0 {
		qb = qb.Where(sq.Eq{"level": filter.Level})
	}
	if filter.IsActive != nil {
		qb = qb.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	q, args, err := qb.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []batchRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying batches")
	}

	batches := make([]batch.Batch, 0, len(rows))
	for _, row := range rows {
		batches = append(batches, row.toDomain())
	}
	return batches, nil
}

func (repo batchRepository) UpdateBatch(ctx context.Context, b batch.Batch) (batch.Batch, error) {
	q, args, err := psql.Update("batch").
		Set("name", b.Name).
		Set("level", b.Level).
		Set("teacher_id", null.NewInt(b.TeacherID, b.TeacherID != 0)).
		Set("days", int16(b.Days)).
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("capacity", b.Capacity).
		Set("is_active", b.IsActive).
		Set("updated_at", b.UpdatedAt).
		Where(sq.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "building update")
	}

	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return batch.Batch{}, errors.Wrap(err, "updating batch")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return batch.Batch{}, batch.ErrNotFound
	}
	return b, nil
}

func (repo batchRepository) CountActiveBatches(ctx context.Context) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM batch WHERE is_active")
	return count, errors.Wrap(err, "counting active batches")
}
