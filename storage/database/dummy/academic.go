package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/academic"
)

type testRepository struct {
	db *testTable
}

var _ academic.Repository = (*testRepository)(nil) // interface compliance check

func NewTestRepository(db *DB) *testRepository {
	return &testRepository{db: db.test}
}

func (repo *testRepository) CreateTest(_ context.Context, t academic.Test) (academic.Test, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	t.ID = repo.db.pkCount
	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *testRepository) GetTestByID(_ context.Context, id int) (academic.Test, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return academic.Test{}, academic.ErrNotFound
}

func (repo *testRepository) QueryStudentTests(_ context.Context, studentID int) ([]academic.Test, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tests := make([]academic.Test, 0)
	for _, t := range repo.db.table {
		if t.StudentID == studentID {
			tests = append(tests, *t)
		}
	}
	// descending TakenAt then descending ID; the level rollup relies on it
	sort.Slice(tests, func(i, j int) bool {
		if !tests[i].TakenAt.Equal(tests[j].TakenAt) {
			return tests[i].TakenAt.After(tests[j].TakenAt)
		}
		return tests[i].ID > tests[j].ID
	})
	return tests, nil
}
