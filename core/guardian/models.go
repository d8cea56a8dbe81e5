package guardian

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Guardian links a parent User to a Student with relationship and permission flags.
type Guardian struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	StudentID        int       `json:"student_id"`
	Relationship     string    `json:"relationship"`
	CanPickup        bool      `json:"can_pickup"`
	EmergencyContact bool      `json:"emergency_contact"`
	IsPrimary        bool      `json:"is_primary"`
	CreatedAt        time.Time `json:"created_at"` // UTC
}

// NewGuardian contains information needed to link a guardian to a student.
type NewGuardian struct {
	UserID           int    `json:"user_id" validate:"required,min=1"`
	StudentID        int    `json:"student_id" validate:"required,min=1"`
	Relationship     string `json:"relationship" validate:"required"`
	CanPickup        bool   `json:"can_pickup"`
	EmergencyContact bool   `json:"emergency_contact"`
	IsPrimary        bool   `json:"is_primary"`
}

func (ng *NewGuardian) Validate() error {
	ng.Relationship = core.CleanString(ng.Relationship, true /* lower */)
	return core.Validate.Struct(ng)
}

// UpdateGuardian modifies the relationship label and permission flags only;
// relinking to another user or student means a new record.
type UpdateGuardian struct {
	Relationship     string `json:"relationship"`
	CanPickup        *bool  `json:"can_pickup"`
	EmergencyContact *bool  `json:"emergency_contact"`
	IsPrimary        *bool  `json:"is_primary"`
}

func (ug *UpdateGuardian) Validate(orig Guardian) error {
	rel := core.CleanString(ug.Relationship, true /* lower */)
	if rel != "" {
		ug.Relationship = rel
	} else {
		ug.Relationship = orig.Relationship
	}
	return core.Validate.Struct(ug)
}
