package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, st := range repo.db.table {
		students = append(students, *st)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	st.ID = repo.db.pkCount
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) StudentExists(_ context.Context, id int) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.table[id]
	return ok, nil
}

func (repo *studentRepository) GetStudentNames(_ context.Context, ids []int) (map[int]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	names := make(map[int]string, len(ids))
	for _, id := range ids {
		if st, ok := repo.db.table[id]; ok {
			names[id] = st.Name
		}
	}
	return names, nil
}

func (repo *studentRepository) FilterStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	if filter.Search != "" {
		var filtered []student.Student
		search := strings.ToLower(filter.Search)
		for _, st := range students {
			if strings.Contains(strings.ToLower(st.Name), search) ||
				strings.Contains(strings.ToLower(st.Phone), search) ||
				strings.Contains(strings.ToLower(st.Email), search) {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	if students != nil && filter.Status != "" {
		var filtered []student.Student
		for _, st := range students {
			if st.Status == filter.Status {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	if students != nil && filter.Level != 0 {
		var filtered []student.Student
		for _, st := range students {
			if st.Level == filter.Level {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	if students != nil && filter.BatchID != 0 {
		var filtered []student.Student
		for _, st := range students {
			if st.BatchID == filter.BatchID {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	return students, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, st student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[st.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) CountStudents(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}

func (repo *studentRepository) CountStudentsInBatch(_ context.Context, batchID int) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, st := range repo.db.table {
		if st.BatchID == batchID && st.Status == student.StatusActive {
			count++
		}
	}
	return count, nil
}
