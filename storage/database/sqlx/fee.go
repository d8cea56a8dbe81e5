package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/fee"
)

type feeRepository struct {
	db *sqlx.DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *sqlx.DB) *feeRepository {
	return &feeRepository{db: db}
}

type feeRow struct {
	ID         int       `db:"id"`
	StudentID  int       `db:"student_id"`
	Amount     float64   `db:"amount"`
	PaidAmount float64   `db:"paid_amount"`
	DueDate    time.Time `db:"due_date"`
	Status     string    `db:"status"`
	ReceiptNo  string    `db:"receipt_no"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r feeRow) toDomain() fee.Fee {
	return fee.Fee{
		ID:         r.ID,
		StudentID:  r.StudentID,
		Amount:     r.Amount,
		PaidAmount: r.PaidAmount,
		DueDate:    r.DueDate,
		Status:     r.Status,
		ReceiptNo:  r.ReceiptNo,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

var feeColumns = []string{"id", "student_id", "amount", "paid_amount", "due_date", "status", "receipt_no", "created_at", "updated_at"}

func (repo feeRepository) CreateFee(ctx context.Context, f fee.Fee) (fee.Fee, error) {
	q, args, err := psql.Insert("fee").
		Columns("student_id", "amount", "paid_amount", "due_date", "status", "receipt_no", "created_at", "updated_at").
		Values(f.StudentID, f.Amount, f.PaidAmount, f.DueDate, f.Status, f.ReceiptNo, f.CreatedAt, f.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&f.ID); err != nil {
		return fee.Fee{}, errors.Wrap(err, "inserting fee")
	}
	return f, nil
}

func (repo feeRepository) GetFeeByID(ctx context.Context, id int) (fee.Fee, error) {
	q, args, err := psql.Select(feeColumns...).From("fee").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "building select")
	}
	var row feeRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return fee.Fee{}, trapNoRowsErr(err, fee.ErrNotFound, "finding fee by ID")
	}
	return row.toDomain(), nil
}

func (repo feeRepository) QueryStudentFees(ctx context.Context, studentID int) ([]fee.Fee, error) {
	q, args, err := psql.Select(feeColumns...).From("fee").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("due_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []feeRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying fees")
	}

	fees := make([]fee.Fee, 0, len(rows))
	for _, row := range rows {
		fees = append(fees, row.toDomain())
	}
	return fees, nil
}

func (repo feeRepository) UpdateFee(ctx context.Context, f fee.Fee) (fee.Fee, error) {
	q, args, err := psql.Update("fee").
		Set("amount", f.Amount).
		Set("paid_amount", f.PaidAmount).
		Set("due_date", f.DueDate).
		Set("status", f.Status).
		Set("updated_at", f.UpdatedAt).
		Where(sq.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "building update")
	}

	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fee.Fee{}, errors.Wrap(err, "updating fee")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return fee.Fee{}, fee.ErrNotFound
	}
	return f, nil
}

func (repo feeRepository) SumFees(ctx context.Context) (fee.Totals, error) {
	var totals fee.Totals
	err := repo.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(paid_amount), 0) FROM fee",
	).Scan(&totals.Amount, &totals.Paid)
	return totals, errors.Wrap(err, "summing fees")
}
