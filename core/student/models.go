package student

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Statuses. Students are never physically deleted in the normal flow;
// deactivation flips the status instead.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Student struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Level      int       `json:"level"`
	BatchID    int       `json:"batch_id"` // 0 = unassigned
	Status     string    `json:"status"`
	ReferredBy string    `json:"referred_by"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"omitempty,min=6"`
	Email      string `json:"email" validate:"omitempty,email"`
	Level      int    `json:"level" validate:"required,min=1"`
	BatchID    int    `json:"batch_id" validate:"omitempty,min=1"`
	ReferredBy string `json:"referred_by"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.ReferredBy = core.CleanString(ns.ReferredBy)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Empty fields fall back to the original values.
type UpdateStudent struct {
	Name    string `json:"name"`
	Phone   string `json:"phone" validate:"omitempty,min=6"`
	Email   string `json:"email" validate:"omitempty,email"`
	Level   int    `json:"level" validate:"omitempty,min=1"`
	BatchID *int   `json:"batch_id" validate:"omitempty"`
	Status  string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	phone := core.CleanString(us.Phone)
	if phone != "" {
		us.Phone = phone
	} else {
		us.Phone = orig.Phone
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	if us.Level == 0 {
		us.Level = orig.Level
	}
	if us.Status == "" {
		us.Status = orig.Status
	}

	return core.Validate.Struct(us)
}

type QueryFilter struct {
	Search  string `query:"search"`
	Status  string `query:"status"`
	Level   int    `query:"level"`
	BatchID int    `query:"batch_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Status == "" && qf.Level == 0 && qf.BatchID == 0
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
