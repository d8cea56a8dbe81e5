package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           int            `db:"id"`
	Name         string         `db:"name"`
	Username     null.String    `db:"username"`
	Email        null.String    `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (r userRow) toDomain() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username.String,
		Email:        r.Email.String,
		IsActive:     r.IsActive,
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

var userColumns = []string{"id", "name", "username", "email", "is_active", "roles", "password_hash", "created_at", "updated_at", "last_login"}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]int, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	check := func(column, value string, sentinel error) error {
		if value == "" {
			return nil
		}
		q := "SELECT EXISTS (SELECT 1 FROM app_user WHERE LOWER(" + column + ") = LOWER($1)"
		args := []interface{}{value}
		if len(exclIDs) > 0 {
			q += " AND NOT (id = ANY($2))"
			args = append(args, pq.Array(exclIDs))
		}
		q += ")"

		var exists bool
		if err := repo.db.GetContext(ctx, &exists, q, args...); err != nil {
			return errors.Wrap(err, "checking uniqueness")
		}
		if exists {
			return sentinel
		}
		return nil
	}

	if err := check("username", username, user.ErrUsernameExists); err != nil {
		return err
	}
	return check("email", email, user.ErrEmailExists)
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q, args, err := psql.Insert("app_user").
		Columns("name", "username", "email", "is_active", "roles", "password_hash", "created_at", "updated_at", "last_login").
		Values(
			usr.Name,
			null.NewString(usr.Username, usr.Username != ""),
			null.NewString(usr.Email, usr.Email != ""),
			usr.IsActive,
			pq.StringArray(usr.Roles),
			usr.PasswordHash,
			usr.CreatedAt,
			usr.UpdatedAt,
			null.NewTime(usr.LastLogin, !usr.LastLogin.IsZero()),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&usr.ID); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	q, args, err := psql.Select(userColumns...).From("app_user").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building select")
	}
	var row userRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user by ID")
	}
	return row.toDomain(), nil
}

func (repo userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	q, args, err := psql.Select(userColumns...).From("app_user").
		Where(sq.Or{
			sq.Expr("LOWER(username) = LOWER(?)", username),
			sq.Expr("LOWER(email) = LOWER(?)", username),
		}).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building select")
	}
	var row userRow
	if err = repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user by username or email")
	}
	return row.toDomain(), nil
}

func (repo userRepository) UserExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM app_user WHERE id = $1)", id)
	return exists, errors.Wrap(err, "checking user existence")
}

func (repo userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	qb := psql.Select(userColumns...).From("app_user")

	if filter.Search != "" {
		val := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{
			sq.Expr("name ILIKE ?", val),
			sq.Expr("username ILIKE ?", val),
			sq.Expr("email ILIKE ?", val),
		})
	}
	if len(filter.Roles) > 0 {
		qb = qb.Where(sq.Expr("roles && ?", pq.StringArray(filter.Roles)))
	}
	if filter.IsActive != nil {
		qb = qb.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if !filter.CreatedFrom.IsZero() {
		qb = qb.Where(sq.GtOrEq{"created_at": filter.CreatedFrom})
	}
	if !filter.CreatedTo.IsZero() {
		qb = qb.Where(sq.LtOrEq{"created_at": filter.CreatedTo})
	}

	q, args, err := qb.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

func (repo userRepository) QueryUsersByRole(ctx context.Context, rolePrefix string) ([]user.User, error) {
	qb := psql.Select(userColumns...).From("app_user").Where(sq.Eq{"is_active": true})
	if rolePrefix != "" {
		qb = qb.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM UNNEST(roles) AS role WHERE role LIKE ?)", rolePrefix+"%",
		))
	}

	q, args, err := qb.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []userRow
	if err = repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users by role")
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	qb := psql.Update("app_user").
		Set("updated_at", usr.UpdatedAt).
		Where(sq.Eq{"id": usr.ID})

	if usr.Name != "" {
		qb = qb.Set("name", usr.Name)
	}
	if usr.Username != "" {
		qb = qb.Set("username", usr.Username)
	}
	if usr.Email != "" {
		qb = qb.Set("email", usr.Email)
	}
	if usr.Roles != nil {
		qb = qb.Set("roles", pq.StringArray(usr.Roles))
	}
	if usr.PasswordHash != nil {
		qb = qb.Set("password_hash", usr.PasswordHash)
	}
	if !usr.LastLogin.IsZero() {
		qb = qb.Set("last_login", usr.LastLogin)
	}
	if isActive != nil {
		qb = qb.Set("is_active", *isActive)
	}

	q, args, err := qb.ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building update")
	}
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, usr.ID)
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := psql.Delete("app_user").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete")
	}
	_, err = repo.db.ExecContext(ctx, q, args...)
	return errors.Wrap(err, "deleting users")
}
