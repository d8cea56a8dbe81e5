package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/shule/core/batch"
)

type batchRepository struct {
	db *batchTable
}

var _ batch.Repository = (*batchRepository)(nil) // interface compliance check

func NewBatchRepository(db *DB) *batchRepository {
	return &batchRepository{db: db.batch}
}

func (repo *batchRepository) query() []batch.Batch {
	batches := make([]batch.Batch, 0, len(repo.db.table))
	for _, b := range repo.db.table {
		batches = append(batches, *b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Name < batches[j].Name })
	return batches
}

func (repo *batchRepository) CreateBatch(_ context.Context, b batch.Batch) (batch.Batch, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	b.ID = repo.db.pkCount
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *batchRepository) GetBatchByID(_ context.Context, id int) (batch.Batch, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if b, ok := repo.db.table[id]; ok {
		return *b, nil
	}
	return batch.Batch{}, batch.ErrNotFound
}

func (repo *batchRepository) BatchExists(_ context.Context, id int) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.table[id]
	return ok, nil
}

func (repo *batchRepository) FilterBatches(_ context.Context, filter batch.QueryFilter) ([]batch.Batch, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	batches := repo.query()

	if filter.Search != "" {
		var filtered []batch.Batch
		search := strings.ToLower(filter.Search)
		for _, b := range batches {
			if strings.Contains(strings.ToLower(b.Name), search) {
				filtered = append(filtered, b)
			}
		}
		batches = filtered
	}
	if batches != nil && filter.Level != 0 {
		var filtered []batch.Batch
		for _, b := range batches {
			if b.Level == filter.Level {
				filtered = append(filtered, b)
			}
		}
		batches = filtered
	}
	if batches != nil && filter.IsActive != nil {
		var filtered []batch.Batch
		for _, b := range batches {
			if b.IsActive == *filter.IsActive {
				filtered = append(filtered, b)
			}
		}
		batches = filtered
	}
	return batches, nil
}

func (repo *batchRepository) UpdateBatch(_ context.Context, b batch.Batch) (batch.Batch, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[b.ID]; !ok {
		return batch.Batch{}, batch.ErrNotFound
	}
	repo.db.table[b.ID] = &b
	return b, nil
}

func (repo *batchRepository) CountActiveBatches(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, b := range repo.db.table {
		if b.IsActive {
			count++
		}
	}
	return count, nil
}
