package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/fee"
)

type feeRepository struct {
	db *feeTable
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{db: db.fee}
}

func (repo *feeRepository) CreateFee(_ context.Context, f fee.Fee) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	f.ID = repo.db.pkCount
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) GetFeeByID(_ context.Context, id int) (fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.table[id]; ok {
		return *f, nil
	}
	return fee.Fee{}, fee.ErrNotFound
}

func (repo *feeRepository) QueryStudentFees(_ context.Context, studentID int) ([]fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fees := make([]fee.Fee, 0)
	for _, f := range repo.db.table {
		if f.StudentID == studentID {
			fees = append(fees, *f)
		}
	}
	sort.Slice(fees, func(i, j int) bool {
		if !fees[i].DueDate.Equal(fees[j].DueDate) {
			return fees[i].DueDate.After(fees[j].DueDate)
		}
		return fees[i].ID > fees[j].ID
	})
	return fees, nil
}

func (repo *feeRepository) UpdateFee(_ context.Context, f fee.Fee) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[f.ID]; !ok {
		return fee.Fee{}, fee.ErrNotFound
	}
	repo.db.table[f.ID] = &f
	return f, nil
}

func (repo *feeRepository) SumFees(_ context.Context) (fee.Totals, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var totals fee.Totals
	for _, f := range repo.db.table {
		totals.Amount += f.Amount
		totals.Paid += f.PaidAmount
	}
	return totals, nil
}
