package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/docspot/internal/apperr"
	"github.com/hackgods/docspot/internal/notify"
	"github.com/hackgods/docspot/internal/notify/notifytest"
)

func sampleApplication() Application {
	return Application{
		FirstName:      "Meera",
		LastName:       "Rao",
		Phone:          "555-0101",
		Address:        "12 Lake Road, Pune",
		Specialization: "Cardiology",
		Experience:     "8 years",
		Fee:            500,
		Timings:        [2]string{"9:00 am", "5:00 pm"},
	}
}

func newTestService() (*Service, *memoryRepo, *notifytest.Recorder) {
	repo := newMemoryRepo()
	rec := &notifytest.Recorder{}
	return NewService(repo, rec), repo, rec
}

func TestApply_NewApplicationNotifiesAdmins(t *testing.T) {
	svc, repo, rec := newTestService()
	userID := repo.addOwner("meera@x.io")

	msg, p, err := svc.Apply(context.Background(), userID, sampleApplication())
	require.NoError(t, err)
	assert.Equal(t, MsgApplied, msg)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, userID, p.UserID)

	admins := rec.Admins()
	require.Len(t, admins, 1)
	assert.Equal(t, notify.TypeNewDoctorRequest, admins[0].Type)
	assert.Equal(t, "Meera Rao has applied for a doctor account", admins[0].Message)
	assert.Equal(t, "/admin/doctors", admins[0].OnClickPath)
}

func TestApply_ByExistingStatus(t *testing.T) {
	tests := []struct {
		status  Status
		wantErr error
		wantMsg string
	}{
		{StatusPending, ErrAlreadyApplied, ""},
		{StatusApproved, ErrAlreadyDoctor, ""},
		{StatusBlocked, ErrDoctorBlocked, ""},
		{StatusRejected, nil, MsgReapplied},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc, repo, rec := newTestService()
			ctx := context.Background()
			userID := repo.addOwner("meera@x.io")

			_, p, err := svc.Apply(ctx, userID, sampleApplication())
			require.NoError(t, err)
			repo.profiles[p.ID].Status = tt.status

			again := sampleApplication()
			again.Specialization = "Neurology"
			msg, got, err := svc.Apply(ctx, userID, again)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, rec.Admins(), 1)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, p.ID, got.ID)
			assert.Equal(t, StatusPending, got.Status)
			assert.Equal(t, "Neurology", got.Specialization)
			assert.Len(t, rec.Admins(), 2)
		})
	}
}

func TestApply_InvalidTimings(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := repo.addOwner("meera@x.io")

	for _, timings := range [][2]string{
		{"5:00 pm", "9:00 am"},
		{"9:00 am", "9:00 am"},
		{"9 am", "5:00 pm"},
		{"", ""},
	} {
		app := sampleApplication()
		app.Timings = timings
		_, _, err := svc.Apply(context.Background(), userID, app)
		require.Error(t, err, "%v", timings)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	}
	assert.Empty(t, repo.profiles)
}

func TestUpdateProfile_KeepsStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	userID := repo.addOwner("meera@x.io")

	_, p, err := svc.Apply(ctx, userID, sampleApplication())
	require.NoError(t, err)
	repo.profiles[p.ID].Status = StatusApproved

	app := sampleApplication()
	app.Fee = 750
	app.Timings = [2]string{"10:00 am", "6:00 pm"}
	got, err := svc.UpdateProfile(ctx, userID, app)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, 750.0, got.Fee)
	assert.Equal(t, [2]string{"10:00 am", "6:00 pm"}, got.Timings)

	_, err = svc.UpdateProfile(ctx, uuid.New(), app)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestChangeStatus_FlipsDoctorFlag(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()
	userID := repo.addOwner("meera@x.io")

	_, p, err := svc.Apply(ctx, userID, sampleApplication())
	require.NoError(t, err)

	listing, err := svc.ChangeStatus(ctx, p.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, listing.Status)
	assert.True(t, repo.owners[userID].isDoctor)
	require.Len(t, repo.owners[userID].unseen, 1)
	assert.Equal(t, "Your doctor account has been approved", repo.owners[userID].unseen[0].Message)

	_, err = svc.ChangeStatus(ctx, p.ID, "blocked")
	require.NoError(t, err)
	assert.False(t, repo.owners[userID].isDoctor)

	emails := rec.Emails()
	require.Len(t, emails, 2)
	assert.Equal(t, "meera@x.io", emails[0].To)

	_, err = svc.ChangeStatus(ctx, p.ID, "promoted")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.ChangeStatus(ctx, uuid.New(), "approved")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestListApproved_Filters(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	add := func(first, last, spec, addr string, status Status) {
		app := sampleApplication()
		app.FirstName, app.LastName, app.Specialization, app.Address = first, last, spec, addr
		_, p, err := svc.Apply(ctx, repo.addOwner(first+"@x.io"), app)
		require.NoError(t, err)
		repo.profiles[p.ID].Status = status
	}
	add("Meera", "Rao", "Cardiology", "Pune", StatusApproved)
	add("Arjun", "Shah", "Dermatology", "Mumbai", StatusApproved)
	add("Kiran", "Das", "Cardiology", "Mumbai", StatusPending)

	all, err := svc.ListApproved(ctx, Filter{Specialization: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cardio, err := svc.ListApproved(ctx, Filter{Specialization: "cardio"})
	require.NoError(t, err)
	require.Len(t, cardio, 1)
	assert.Equal(t, "Meera", cardio[0].FirstName)

	mumbai, err := svc.ListApproved(ctx, Filter{Search: "MUMBAI"})
	require.NoError(t, err)
	require.Len(t, mumbai, 1)
	assert.Equal(t, "Arjun", mumbai[0].FirstName)
}

func TestProfile_Bookable(t *testing.T) {
	assert.True(t, (&Profile{Status: StatusApproved}).Bookable())
	assert.False(t, (&Profile{Status: StatusPending}).Bookable())
	assert.False(t, (&Profile{Status: StatusBlocked}).Bookable())
}
