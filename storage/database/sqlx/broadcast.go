package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/broadcast"
)

type broadcastRepository struct {
	db *sqlx.DB
}

var _ broadcast.Repository = (*broadcastRepository)(nil) // interface compliance check

func NewBroadcastRepository(db *sqlx.DB) *broadcastRepository {
	return &broadcastRepository{db: db}
}

type broadcastRow struct {
	ID        int       `db:"id"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	Audience  string    `db:"audience"`
	SentByID  int       `db:"sent_by_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r broadcastRow) toDomain() broadcast.Broadcast {
	return broadcast.Broadcast{
		ID:        r.ID,
		Subject:   r.Subject,
		Body:      r.Body,
		Audience:  r.Audience,
		SentByID:  r.SentByID,
		CreatedAt: r.CreatedAt,
	}
}

func (repo broadcastRepository) CreateBroadcast(ctx context.Context, b broadcast.Broadcast) (broadcast.Broadcast, error) {
	q, args, err := psql.Insert("broadcast").
		Columns("subject", "body", "audience", "sent_by_id", "created_at").
		Values(b.Subject, b.Body, b.Audience, b.SentByID, b.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return broadcast.Broadcast{}, errors.Wrap(err, "building insert")
	}
	if err = repo.db.QueryRowContext(ctx, q, args...).Scan(&b.ID); err != nil {
		return broadcast.Broadcast{}, errors.Wrap(err, "inserting broadcast")
	}
	return b, nil
}

func (repo broadcastRepository) QueryBroadcasts(ctx context.Context) ([]broadcast.Broadcast, error) {
	q, _, err := psql.Select("id", "subject", "body", "audience", "sent_by_id", "created_at").
		From("broadcast").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select")
	}
	var rows []broadcastRow
	if err = repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying broadcasts")
	}

	broadcasts := make([]broadcast.Broadcast, 0, len(rows))
	for _, row := range rows {
		broadcasts = append(broadcasts, row.toDomain())
	}
	return broadcasts, nil
}
