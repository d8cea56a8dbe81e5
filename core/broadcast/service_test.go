package broadcast_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/broadcast"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/storage/database/dummy"
)

func TestMain(m *testing.M) {
	core.InitValidators()
	os.Exit(m.Run())
}

type testEnv struct {
	svc     *broadcast.Service
	usrRepo user.Repository
}

func setup(t *testing.T) *testEnv {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}

	conf := core.NewConfig()
	env := &testEnv{usrRepo: dummydb.NewUserRepository(db)}
	env.svc = broadcast.NewService(dummydb.NewBroadcastRepository(db), env.usrRepo, emailsvc.NewConsoleServiceMock(conf))

	emailsvc.SentMessages = emailsvc.SentMessages[:0]
	return env
}

func (env *testEnv) seedUser(t *testing.T, name, email string, roles []string) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr, err := env.usrRepo.CreateUser(context.Background(), user.User{
		Name:      name,
		Username:  name,
		Email:     email,
		IsActive:  true,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seedUser() failed, %v", err)
	}
	return usr
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()
	env := setup(t)

	env.seedUser(t, "teacher1", "teach@test.cd", []string{user.RoleTeacher})
	env.seedUser(t, "parent1", "parent@test.cd", []string{user.RoleParent})
	env.seedUser(t, "parent2", "parent2@test.cd", []string{user.RoleParent})
	env.seedUser(t, "noemail1", "", []string{user.RoleParent})

	t.Run("targets parents only", func(t *testing.T) {
		nb := broadcast.NewBroadcast{Subject: "Fees due", Body: "Please pay up.", Audience: broadcast.AudienceParents}
		assert.NoError(t, nb.Validate())

		b, err := env.svc.Send(ctx, nb, 1)
		assert.NoError(t, err)
		assert.NotZero(t, b.ID)
		assert.Equal(t, 1, b.SentByID)

		if assert.Len(t, emailsvc.SentMessages, 1) {
			msg := emailsvc.SentMessages[0]
			assert.Equal(t, "Fees due", msg.Subject)
			// users without an email address are skipped
			assert.Len(t, msg.Bcc, 2)
		}
	})

	t.Run("all audience reaches everyone", func(t *testing.T) {
		emailsvc.SentMessages = emailsvc.SentMessages[:0]

		nb := broadcast.NewBroadcast{Subject: "Holiday", Body: "School closed Monday.", Audience: broadcast.AudienceAll}
		_, err := env.svc.Send(ctx, nb, 1)
		assert.NoError(t, err)

		if assert.Len(t, emailsvc.SentMessages, 1) {
			assert.Len(t, emailsvc.SentMessages[0].Bcc, 3)
		}
	})

	t.Run("recorded", func(t *testing.T) {
		broadcasts, err := env.svc.QueryAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, broadcasts, 2)
	})
}

func TestNewBroadcast_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    broadcast.NewBroadcast
		wantErr bool
	}{
		{name: "ok", data: broadcast.NewBroadcast{Subject: "Hi", Body: "There", Audience: "all"}},
		{name: "audience normalized", data: broadcast.NewBroadcast{Subject: "Hi", Body: "There", Audience: " Teachers "}},
		{name: "bad audience", data: broadcast.NewBroadcast{Subject: "Hi", Body: "There", Audience: "students"}, wantErr: true},
		{name: "missing subject", data: broadcast.NewBroadcast{Body: "There", Audience: "all"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
