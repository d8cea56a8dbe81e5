package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/shule/core/guardian"
)

type guardianRepository struct {
	db *guardianTable
}

var _ guardian.Repository = (*guardianRepository)(nil) // interface compliance check

func NewGuardianRepository(db *DB) *guardianRepository {
	return &guardianRepository{db: db.guardian}
}

func (repo *guardianRepository) CreateGuardian(_ context.Context, g guardian.Guardian) (guardian.Guardian, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	g.ID = repo.db.pkCount
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *guardianRepository) GetGuardianByID(_ context.Context, id int) (guardian.Guardian, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if g, ok := repo.db.table[id]; ok {
		return *g, nil
	}
	return guardian.Guardian{}, guardian.ErrNotFound
}

func (repo *guardianRepository) QueryStudentGuardians(_ context.Context, studentID int) ([]guardian.Guardian, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	guardians := make([]guardian.Guardian, 0)
	for _, g := range repo.db.table {
		if g.StudentID == studentID {
			guardians = append(guardians, *g)
		}
	}
	sort.Slice(guardians, func(i, j int) bool {
		if guardians[i].IsPrimary != guardians[j].IsPrimary {
			return guardians[i].IsPrimary
		}
		return guardians[i].ID < guardians[j].ID
	})
	return guardians, nil
}

func (repo *guardianRepository) QueryUserGuardians(_ context.Context, userID int) ([]guardian.Guardian, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	guardians := make([]guardian.Guardian, 0)
	for _, g := range repo.db.table {
		if g.UserID == userID {
			guardians = append(guardians, *g)
		}
	}
	sort.Slice(guardians, func(i, j int) bool { return guardians[i].ID < guardians[j].ID })
	return guardians, nil
}

func (repo *guardianRepository) UpdateGuardian(_ context.Context, g guardian.Guardian) (guardian.Guardian, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[g.ID]; !ok {
		return guardian.Guardian{}, guardian.ErrNotFound
	}
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *guardianRepository) DeleteGuardian(_ context.Context, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return guardian.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
