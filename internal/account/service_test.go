package account

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/notify"
	"github.com/hackgods/docspot/internal/notify/notifytest"
)

type stubTokens struct {
	issued []uuid.UUID
}

func (s *stubTokens) Issue(id uuid.UUID) (string, error) {
	s.issued = append(s.issued, id)
	return "token-" + id.String(), nil
}

type fixture struct {
	svc    *Service
	repo   *memoryRepo
	tokens *stubTokens
	rec    *notifytest.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{repo: newMemoryRepo(), tokens: &stubTokens{}, rec: &notifytest.Recorder{}}
	f.svc = NewService(f.repo, f.tokens, f.rec)
	codes := []string{"111111", "222222", "333333"}
	f.svc.otp = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	return f
}

func (f *fixture) registerVerified(t *testing.T, email, password string) *Account {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, Registration{Name: "Asha", Email: email, Password: password, Phone: "555"}))
	acc, err := f.repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	_, err = f.svc.VerifyOTP(ctx, email, *acc.OTP)
	require.NoError(t, err)
	acc, err = f.repo.GetByEmail(ctx, email)
	require.NoError(t, err)
	return acc
}

func TestRegister_SendsOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Register(ctx, Registration{Name: "Asha", Email: " Asha@Example.com ", Password: "pw123456", Phone: "555"})
	require.NoError(t, err)

	acc, err := f.repo.GetByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.False(t, acc.IsVerified)
	require.NotNil(t, acc.OTP)
	assert.Equal(t, "111111", *acc.OTP)
	assert.NotEqual(t, "pw123456", acc.PasswordHash)

	emails := f.rec.Emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "asha@example.com", emails[0].To)
	assert.Equal(t, "DocSpot Verification Code", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "111111")
}

func TestRegister_UnverifiedIsOverwritten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, Registration{Name: "First", Email: "a@x.io", Password: "one", Phone: "1"}))
	require.NoError(t, f.svc.Register(ctx, Registration{Name: "Second", Email: "a@x.io", Password: "two", Phone: "2"}))

	all, err := f.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Second", all[0].Name)
	assert.Equal(t, "222222", *all[0].OTP)
}

func TestRegister_VerifiedExists(t *testing.T) {
	f := newFixture(t)
	f.registerVerified(t, "a@x.io", "pw")

	err := f.svc.Register(context.Background(), Registration{Name: "Again", Email: "a@x.io", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
}

func TestVerifyOTP(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.Register(ctx, Registration{Name: "Asha", Email: "a@x.io", Password: "pw"}))

	_, err := f.svc.VerifyOTP(ctx, "nobody@x.io", "111111")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.VerifyOTP(ctx, "a@x.io", "999999")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	token, err := f.svc.VerifyOTP(ctx, "a@x.io", "111111")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	acc, err := f.repo.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, acc.IsVerified)
	assert.Nil(t, acc.OTP)

	// code is single use
	_, err = f.svc.VerifyOTP(ctx, "a@x.io", "111111")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	emails := f.rec.Emails()
	assert.Equal(t, "Welcome to DocSpot", emails[len(emails)-1].Subject)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.registerVerified(t, "a@x.io", "correct-horse")

	require.NoError(t, f.svc.Register(ctx, Registration{Name: "Pending", Email: "p@x.io", Password: "pw"}))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"unknown", "ghost@x.io", "pw", ErrUserNotFound},
		{"unverified", "p@x.io", "pw", ErrNotVerified},
		{"wrong password", "a@x.io", "nope", ErrInvalidPassword},
		{"ok", "A@X.io", "correct-horse", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := f.svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "token-"+acc.ID.String(), token)
		})
	}
}

func TestLogin_BlockedBeforePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.registerVerified(t, "a@x.io", "pw")

	_, err := f.svc.SetBlocked(ctx, acc.ID, true)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "a@x.io", "wrong")
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestSetBlocked_AppendsNotificationAndEmails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.registerVerified(t, "a@x.io", "pw")

	updated, err := f.svc.SetBlocked(ctx, acc.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsBlocked)
	require.Len(t, updated.UnseenNotifications, 1)
	assert.Equal(t, notify.TypeAccountBlockChanged, updated.UnseenNotifications[0].Type)

	emails := f.rec.Emails()
	assert.Equal(t, "a@x.io", emails[len(emails)-1].To)

	_, err = f.svc.SetBlocked(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNotifications_MarkSeenPreservesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acc := f.registerVerified(t, "a@x.io", "pw")
	other := f.registerVerified(t, "b@x.io", "pw")

	f.repo.push(acc.ID, notify.Notification{Message: "one"})
	_, err := f.svc.MarkAllNotificationsSeen(ctx, acc.ID)
	require.NoError(t, err)

	f.repo.push(acc.ID, notify.Notification{Message: "two"})
	f.repo.push(acc.ID, notify.Notification{Message: "three"})
	f.repo.push(other.ID, notify.Notification{Message: "theirs"})

	got, err := f.svc.MarkAllNotificationsSeen(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, got.UnseenNotifications)
	require.Len(t, got.SeenNotifications, 3)
	assert.Equal(t, "one", got.SeenNotifications[0].Message)
	assert.Equal(t, "two", got.SeenNotifications[1].Message)
	assert.Equal(t, "three", got.SeenNotifications[2].Message)

	theirs, err := f.svc.Profile(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, theirs.UnseenNotifications, 1)

	cleared, err := f.svc.DeleteAllNotifications(ctx, acc.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.SeenNotifications)
	assert.Empty(t, cleared.UnseenNotifications)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	acc := f.registerVerified(t, "a@x.io", "pw")

	got, err := f.svc.UpdateProfile(context.Background(), acc.ID, " Asha K ", "777")
	require.NoError(t, err)
	assert.Equal(t, "Asha K", got.Name)
	assert.Equal(t, "777", got.Phone)

	_, err = f.svc.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = f.svc.EnsureAdmin(ctx, "admin@docspot.io", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.EnsureAdmin(ctx, "other@docspot.io", "secret")
	require.NoError(t, err)
	assert.False(t, created)

	token, err := f.svc.Login(ctx, "admin@docspot.io", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

type failingRepo struct {
	*memoryRepo
}

func (failingRepo) GetByEmail(context.Context, string) (*Account, error) {
	return nil, errors.New("connection reset")
}

func TestLogin_StoreFailureIsPersistence(t *testing.T) {
	svc := NewService(failingRepo{newMemoryRepo()}, &stubTokens{}, &notifytest.Recorder{})

	_, err := svc.Login(context.Background(), "a@x.io", "pw")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
	assert.False(t, apperr.IsCallerFacing(err))
}

func TestNewOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := newOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}
}
