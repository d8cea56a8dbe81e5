package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/guardian"
)

type guardianRepository struct {
	db *sqlx.DB
}

var _ guardian.Repository = (*guardianRepository)(nil) // interface compliance check

func NewGuardianRepository(db *sqlx.DB) *guardianRepository {
	return &guardianRepository{db: db}
}

type guardianRow struct {
	ID               int       `db:"id"`
	UserID           int       `db:"user_id"`
	StudentID        int       `db:"student_id"`
	Relationship     string    `db:"relationship"`
	CanPickup        bool      `db:"can_pickup"`
	EmergencyContact bool      `db:"emergency_contact"`
	IsPrimary        bool      `db:"is_primary"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r guardianRow) toDomain() guardian.Guardian {
	return guardian.Guardian{
		ID:               r.ID,
		UserID:           r.UserID,
		StudentID:        r.StudentID,
		Relationship:     r.Relationship,
		CanPickup:        r.CanPickup,
		EmergencyContact: r.EmergencyContact,
		IsPrimary:        r.IsPrimary,
		CreatedAt:        r.CreatedAt,
	}
}

var guardianColumns = []string{"id", "user_id", "student_id", "relationship", "can_pickup", "emergency_contact", "is_primary", "created_at"}

func (repo guardianRepository) CreateGuardian(ctx context.Context, g guardian.Guardian) (guardian.Guardian, error) {
	q, args, err := psql.Insert("guardian").
		Columns("user_id", "student_id", "relationship", "can_pickup", "emergency_contact", "is_primary", "created_at").
		Values(g.UserID, g.StudentID, g.Relationship, g.CanPickup, g.EmergencyContact, g.IsPrimary, g.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&g.ID); err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "inserting guardian")
	}
	return g, nil
}

func (repo guardianRepository) GetGuardianByID(ctx context.Context, id int) (guardian.Guardian, error) {
	q, args, err := psql.Select(guardianColumns...).From("guardian").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "building select")
	}
	var row guardianRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return guardian.Guardian{}, trapNoRowsErr(err, guardian.ErrNotFound, "finding guardian by ID")
	}
	return row.toDomain(), nil
}

func (repo guardianRepository) queryGuardians(ctx context.Context, qb sq.SelectBuilder) ([]guardian.Guardian, error) {
	q, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []guardianRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying guardians")
	}

	guardians := make([]guardian.Guardian, 0, len(rows))
	for _, row := range rows {
		guardians = append(guardians, row.toDomain())
	}
	return guardians, nil
}

func (repo guardianRepository) QueryStudentGuardians(ctx context.Context, studentID int) ([]guardian.Guardian, error) {
	qb := psql.Select(guardianColumns...).From("guardian").
		Where(sq.Eq{"student_id": studentID}).
		OrderBy("is_primary DESC", "id ASC")
	return repo.queryGuardians(ctx, qb)
}

func (repo guardianRepository) QueryUserGuardians(ctx context.Context, userID int) ([]guardian.Guardian, error) {
	qb := psql.Select(guardianColumns...).From("guardian").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC")
	return repo.queryGuardians(ctx, qb)
}

func (repo guardianRepository) UpdateGuardian(ctx context.Context, g guardian.Guardian) (guardian.Guardian, error) {
	q, args, err := psql.Update("guardian").
		Set("relationship", g.Relationship).
		Set("can_pickup", g.CanPickup).
		Set("emergency_contact", g.EmergencyContact).
		Set("is_primary", g.IsPrimary).
		Where(sq.Eq{"id": g.ID}).
		ToSql()
	if err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "building update")
	}

	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "updating guardian")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return guardian.Guardian{}, guardian.ErrNotFound
	}
	return g, nil
}

func (repo guardianRepository) DeleteGuardian(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM guardian WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting guardian")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return guardian.ErrNotFound
	}
	return nil
}
