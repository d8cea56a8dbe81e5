package guardian

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("guardian not found")
)

type (
	Repository interface {
		CreateGuardian(ctx context.Context, g Guardian) (Guardian, error)
		GetGuardianByID(ctx context.Context, id int) (Guardian, error)
		QueryStudentGuardians(ctx context.Context, studentID int) ([]Guardian, error)
		QueryUserGuardians(ctx context.Context, userID int) ([]Guardian, error)
		UpdateGuardian(ctx context.Context, g Guardian) (Guardian, error)
		DeleteGuardian(ctx context.Context, id int) error
	}

	// StudentDirectory is the slice of the student domain this service needs.
	StudentDirectory interface {
		StudentExists(ctx context.Context, id int) (bool, error)
	}

	// UserDirectory is the slice of the user domain this service needs.
	UserDirectory interface {
		UserExists(ctx context.Context, id int) (bool, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		users    UserDirectory
	}
)

func NewService(repo Repository, students StudentDirectory, users UserDirectory) *Service {
	return &Service{repo: repo, students: students, users: users}
}

func (svc *Service) Link(ctx context.Context, ng NewGuardian) (Guardian, error) {
	ok, err := svc.students.StudentExists(ctx, ng.StudentID)
	if err != nil {
		return Guardian{}, err
	}
	if !ok {
		return Guardian{}, student.ErrNotFound
	}
	ok, err = svc.users.UserExists(ctx, ng.UserID)
	if err != nil {
		return Guardian{}, err
	}
	if !ok {
		return Guardian{}, user.ErrNotFound
	}

	g := Guardian{
		UserID:           ng.UserID,
		StudentID:        ng.StudentID,
		Relationship:     ng.Relationship,
		CanPickup:        ng.CanPickup,
		EmergencyContact: ng.EmergencyContact,
		IsPrimary:        ng.IsPrimary,
		CreatedAt:        time.Now().UTC(),
	}
	return svc.repo.CreateGuardian(ctx, g)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Guardian, error) {
	return svc.repo.GetGuardianByID(ctx, id)
}

func (svc *Service) QueryByStudent(ctx context.Context, studentID int) ([]Guardian, error) {
	ok, err := svc.students.StudentExists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, student.ErrNotFound
	}
	return svc.repo.QueryStudentGuardians(ctx, studentID)
}

func (svc *Service) QueryByUser(ctx context.Context, userID int) ([]Guardian, error) {
	return svc.repo.QueryUserGuardians(ctx, userID)
}

func (svc *Service) Update(ctx context.Context, id int, ug UpdateGuardian) (Guardian, error) {
	orig, err := svc.repo.GetGuardianByID(ctx, id)
	if err != nil {
		return Guardian{}, err
	}
	if err := ug.Validate(orig); err != nil {
		return Guardian{}, err
	}

	g := orig
	g.Relationship = ug.Relationship
	if ug.CanPickup != nil {
		g.CanPickup = *ug.CanPickup
	}
	if ug.EmergencyContact != nil {
		g.EmergencyContact = *ug.EmergencyContact
	}
	if ug.IsPrimary != nil {
		g.IsPrimary = *ug.IsPrimary
	}
	return svc.repo.UpdateGuardian(ctx, g)
}

func (svc *Service) Unlink(ctx context.Context, id int) error {
	return svc.repo.DeleteGuardian(ctx, id)
}
