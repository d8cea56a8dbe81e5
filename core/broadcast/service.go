package broadcast

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("broadcast not found")
)

type (
	Repository interface {
		CreateBroadcast(ctx context.Context, b Broadcast) (Broadcast, error)
		QueryBroadcasts(ctx context.Context) ([]Broadcast, error)
	}

	// RecipientDirectory resolves an audience to deliverable users.
	RecipientDirectory interface {
		QueryUsersByRole(ctx context.Context, rolePrefix string) ([]user.User, error)
	}

	Service struct {
		repo       Repository
		recipients RecipientDirectory
		mailSvc    core.EmailService
	}
)

func NewService(repo Repository, recipients RecipientDirectory, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, recipients: recipients, mailSvc: mailSvc}
}

func audienceRolePrefix(audience string) string {
	switch audience {
	case AudienceTeachers:
		return user.RoleTeacher
	case AudienceParents:
		return user.RoleParent
	}
	return "" // all
}

// Send persists the broadcast then fires the email side channel. Delivery
// happens in the background; failures are logged by the email service, not
// surfaced to the caller.
func (svc *Service) Send(ctx context.Context, nb NewBroadcast, sentByID int) (Broadcast, error) {
	b := Broadcast{
		Subject:   nb.Subject,
		Body:      nb.Body,
		Audience:  nb.Audience,
		SentByID:  sentByID,
		CreatedAt: time.Now().UTC(),
	}
	b, err := svc.repo.CreateBroadcast(ctx, b)
	if err != nil {
		return Broadcast{}, err
	}

	users, err := svc.recipients.QueryUsersByRole(ctx, audienceRolePrefix(b.Audience))
	if err != nil {
		return Broadcast{}, err
	}

	recipients := make([]mail.Address, 0, len(users))
	for _, usr := range users {
		if usr.Email != "" {
			recipients = append(recipients, mail.Address{Name: usr.Name, Address: usr.Email})
		}
	}
	if len(recipients) > 0 {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			Bcc:         recipients,
			Subject:     b.Subject,
			TextContent: b.Body,
		})
	}
	return b, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Broadcast, error) {
	return svc.repo.QueryBroadcasts(ctx)
}
