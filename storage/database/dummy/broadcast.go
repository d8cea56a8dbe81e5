package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/broadcast"
)

type broadcastRepository struct {
	db *broadcastTable
}

var _ broadcast.Repository = (*broadcastRepository)(nil) // interface compliance check

func NewBroadcastRepository(db *DB) *broadcastRepository {
	return &broadcastRepository{db: db.broadcast}
}

func (repo *broadcastRepository) CreateBroadcast(_ context.Context, b broadcast.Broadcast) (broadcast.Broadcast, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	b.ID = repo.db.pkCount
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *broadcastRepository) QueryBroadcasts(_ context.Context) ([]broadcast.Broadcast, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	broadcasts := make([]broadcast.Broadcast, 0, len(repo.db.table))
	for _, b := range repo.db.table {
		broadcasts = append(broadcasts, *b)
	}
	sort.Slice(broadcasts, func(i, j int) bool { return broadcasts[i].ID > broadcasts[j].ID })
	return broadcasts, nil
}
