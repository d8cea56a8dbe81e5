package dummydb

import (
	"sync"

	"github.com/trezcool/shule/core/academic"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/batch"
	"github.com/trezcool/shule/core/broadcast"
	"github.com/trezcool/shule/core/fee"
	"github.com/trezcool/shule/core/guardian"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

type (
	DB struct {
		user       *userTable
		student    *studentTable
		batch      *batchTable
		attendance *attendanceTable
		test       *testTable
		fee        *feeTable
		guardian   *guardianTable
		broadcast  *broadcastTable
	}

	userTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*user.User
	}

	studentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*student.Student
	}

	batchTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*batch.Batch
	}

	attendanceTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*attendance.Attendance
	}

	testTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*academic.Test
	}

	feeTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*fee.Fee
	}

	guardianTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*guardian.Guardian
	}

	broadcastTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*broadcast.Broadcast
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		student:    &studentTable{table: make(map[int]*student.Student)},
		batch:      &batchTable{table: make(map[int]*batch.Batch)},
		attendance: &attendanceTable{table: make(map[int]*attendance.Attendance)},
		test:       &testTable{table: make(map[int]*academic.Test)},
		fee:        &feeTable{table: make(map[int]*fee.Fee)},
		guardian:   &guardianTable{table: make(map[int]*guardian.Guardian)},
		broadcast:  &broadcastTable{table: make(map[int]*broadcast.Broadcast)},
	}
	return db, nil
}
