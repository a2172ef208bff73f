package drives

import (
	"context"
	"sync"
	"testing"
	"time"

	"sharebloom-backend/internal/application/policies/access"
	"sharebloom-backend/internal/domain"
	"sharebloom-backend/internal/pkg/apperr"
	"sharebloom-backend/internal/pkg/constants"
	"sharebloom-backend/internal/pkg/pagination"
	"sharebloom-backend/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	s     *Service
	db    *gorm.DB
	admin *domain.User
	donor *domain.User
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	return fixture{
		s:     &Service{DB: db},
		db:    db,
		admin: testutil.CreateUser(t, db, constants.Admin),
		donor: testutil.CreateUser(t, db, constants.Donor),
	}
}

func validCreate() CreateInput {
	start := time.Now().Add(48 * time.Hour)
	return CreateInput{
		Title:       "Flood relief",
		Description: "Collecting essentials for flooded households",
		Category:    constants.CategoryMixed,
		TargetItems: []TargetItemInput{{Item: "blankets", Quantity: 100, Unit: "pieces"}},
		StartDate:   start,
		EndDate:     start.Add(72 * time.Hour),
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.s.Create(ctx, testutil.ActorFor(f.admin), validCreate())
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, d.OrganizerID)
	assert.Equal(t, constants.DriveUpcoming, d.Status)
	assert.True(t, d.IsPublic)
	assert.Equal(t, 0, d.TargetRecipients)
	require.Len(t, d.TargetItems, 1)
	assert.Equal(t, "blankets", d.TargetItems[0].Item)
	assert.Empty(t, d.Volunteers)

	_, err = f.s.Create(ctx, testutil.ActorFor(f.donor), validCreate())
	assert.ErrorIs(t, err, access.ErrRoleNotAllowed)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := testutil.ActorFor(f.admin)

	in := validCreate()
	in.EndDate = in.StartDate.Add(-time.Hour)
	_, err := f.s.Create(ctx, actor, in)
	assert.ErrorIs(t, err, ErrDateRange)

	in = validCreate()
	in.IsEmergency = true
	_, err = f.s.Create(ctx, actor, in)
	assert.ErrorIs(t, err, ErrEmergencyTypeRequired)

	in.EmergencyType = constants.EmergencyNaturalDisaster
	d, err := f.s.Create(ctx, actor, in)
	require.NoError(t, err)
	assert.True(t, d.IsEmergency)

	in = validCreate()
	in.Category = "toys"
	_, err = f.s.Create(ctx, actor, in)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdate_AdminOnlyAndMergedRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)

	title := "Spring clothing drive"
	_, err := f.s.Update(ctx, testutil.ActorFor(f.donor), d.ID, UpdateInput{Title: &title})
	assert.ErrorIs(t, err, access.ErrRoleNotAllowed)

	early := d.StartDate.Add(-time.Hour)
	_, err = f.s.Update(ctx, testutil.ActorFor(f.admin), d.ID, UpdateInput{EndDate: &early})
	assert.ErrorIs(t, err, ErrDateRange)

	yes := true
	_, err = f.s.Update(ctx, testutil.ActorFor(f.admin), d.ID, UpdateInput{IsEmergency: &yes})
	assert.ErrorIs(t, err, ErrEmergencyTypeRequired)

	status := constants.DriveActive
	got, err := f.s.Update(ctx, testutil.ActorFor(f.admin), d.ID, UpdateInput{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.Equal(t, constants.DriveActive, got.Status)

	_, err = f.s.Update(ctx, testutil.ActorFor(f.admin), uuid.New(), UpdateInput{Title: &title})
	assert.ErrorIs(t, err, ErrDriveNotFound)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	testutil.CreateDrive(t, f.db, f.admin.ID)
	testutil.CreateDrive(t, f.db, f.admin.ID, func(d *domain.Drive) {
		d.Status = constants.DriveActive
		d.IsEmergency = true
		d.EmergencyType = constants.EmergencyPandemic
		d.Category = constants.CategoryMedical
	})

	all, err := f.s.List(context.Background(), Filter{}, pagination.New(1, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	yes := true
	emergency, err := f.s.List(context.Background(), Filter{IsEmergency: &yes}, pagination.New(1, 10, 10))
	require.NoError(t, err)
	require.Len(t, emergency.Items, 1)
	assert.Equal(t, constants.CategoryMedical, emergency.Items[0].Category)

	none, err := f.s.List(context.Background(), Filter{Status: constants.DriveActive, Category: constants.CategoryFood}, pagination.New(1, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), none.Total)
	assert.NotNil(t, none.Items)
}

func TestJoinAsVolunteer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)
	recipient := testutil.CreateUser(t, f.db, constants.Recipient)

	got, err := f.s.JoinAsVolunteer(ctx, testutil.ActorFor(recipient), d.ID, VolunteerInput{})
	require.NoError(t, err)
	require.Len(t, got.Volunteers, 1)
	assert.Equal(t, recipient.ID, got.Volunteers[0].UserID)
	assert.Equal(t, constants.DefaultVolunteerRole, got.Volunteers[0].Role)

	_, err = f.s.JoinAsVolunteer(ctx, testutil.ActorFor(recipient), d.ID, VolunteerInput{Role: "driver"})
	assert.ErrorIs(t, err, ErrAlreadyVolunteer)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	got, err = f.s.JoinAsVolunteer(ctx, testutil.ActorFor(f.donor), d.ID, VolunteerInput{Role: "driver"})
	require.NoError(t, err)
	require.Len(t, got.Volunteers, 2)
	assert.Equal(t, "driver", got.Volunteers[1].Role)

	_, err = f.s.JoinAsVolunteer(ctx, testutil.ActorFor(f.donor), uuid.New(), VolunteerInput{})
	assert.ErrorIs(t, err, ErrDriveNotFound)

	_, err = f.s.JoinAsVolunteer(ctx, access.Actor{}, d.ID, VolunteerInput{})
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
}

func TestJoinAsVolunteer_ConcurrentUsersAllKept(t *testing.T) {
	f := newFixture(t)
	d := testutil.CreateDrive(t, f.db, f.admin.ID)

	const n = 10
	users := make([]*domain.User, n)
	for i := range users {
		users[i] = testutil.CreateUser(t, f.db, constants.Donor)
	}
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, u := range users {
		wg.Add(1)
		go func(i int, u *domain.User) {
			defer wg.Done()
			_, errs[i] = f.s.JoinAsVolunteer(context.Background(), testutil.ActorFor(u), d.ID, VolunteerInput{})
		}(i, u)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}

	got, err := f.s.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Volunteers, n)
}

func TestAttachDonation_RecomputesProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)
	rice1 := testutil.CreateDonation(t, f.db, f.donor.ID)
	rice2 := testutil.CreateDonation(t, f.db, f.donor.ID, func(d *domain.Donation) { d.Quantity = 6 })
	coats := testutil.CreateDonation(t, f.db, f.donor.ID, func(d *domain.Donation) {
		d.Category = constants.CategoryClothing
		d.Subcategory = "coats"
		d.Quantity = 3
		d.Unit = "pieces"
	})

	for _, don := range []*domain.Donation{rice1, rice2} {
		_, err := f.s.AttachDonation(ctx, testutil.ActorFor(f.donor), d.ID, AttachDonationInput{DonationID: don.ID.String()})
		require.NoError(t, err)
	}
	got, err := f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), d.ID, AttachDonationInput{DonationID: coats.ID.String()})
	require.NoError(t, err)

	assert.Len(t, got.CurrentDonations, 3)
	assert.Equal(t, 3, got.Progress.TotalDonations)
	assert.Equal(t, domain.CollectedItems{
		{Item: "coats", Quantity: 3, Unit: "pieces"},
		{Item: "grains", Quantity: 10, Unit: "bags"},
	}, got.Progress.ItemsCollected)

	var stored domain.Donation
	require.NoError(t, f.db.First(&stored, "id = ?", rice1.ID).Error)
	require.NotNil(t, stored.DriveID)
	assert.Equal(t, d.ID, *stored.DriveID)

	_, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.donor), d.ID, AttachDonationInput{DonationID: rice1.ID.String()})
	assert.ErrorIs(t, err, ErrAlreadyAttached)
}

func TestAttachDonation_DeletedDonationDropsFromProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)
	gone := testutil.CreateDonation(t, f.db, f.donor.ID)
	kept := testutil.CreateDonation(t, f.db, f.donor.ID)

	_, err := f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), d.ID, AttachDonationInput{DonationID: gone.ID.String()})
	require.NoError(t, err)
	require.NoError(t, f.db.Delete(&domain.Donation{}, "id = ?", gone.ID).Error)

	got, err := f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), d.ID, AttachDonationInput{DonationID: kept.ID.String()})
	require.NoError(t, err)
	assert.Len(t, got.CurrentDonations, 2)
	assert.Equal(t, 1, got.Progress.TotalDonations)
	assert.Equal(t, domain.CollectedItems{{Item: "grains", Quantity: 4, Unit: "bags"}}, got.Progress.ItemsCollected)
}

func TestAttachDonation_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)
	don := testutil.CreateDonation(t, f.db, f.donor.ID)
	other := testutil.CreateUser(t, f.db, constants.Donor)

	_, err := f.s.AttachDonation(ctx, testutil.ActorFor(other), d.ID, AttachDonationInput{DonationID: don.ID.String()})
	assert.ErrorIs(t, err, access.ErrNotOwner)

	_, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), d.ID, AttachDonationInput{DonationID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrDonationNotFound)

	_, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), uuid.New(), AttachDonationInput{DonationID: don.ID.String()})
	assert.ErrorIs(t, err, ErrDriveNotFound)

	_, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), d.ID, AttachDonationInput{DonationID: "not-a-uuid"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAttachDonation_OneDriveAtATime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := testutil.CreateDrive(t, f.db, f.admin.ID)
	second := testutil.CreateDrive(t, f.db, f.admin.ID)
	don := testutil.CreateDonation(t, f.db, f.donor.ID)

	_, err := f.s.AttachDonation(ctx, testutil.ActorFor(f.donor), first.ID, AttachDonationInput{DonationID: don.ID.String()})
	require.NoError(t, err)

	_, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), second.ID, AttachDonationInput{DonationID: don.ID.String()})
	assert.ErrorIs(t, err, ErrInOtherDrive)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	got, err := f.s.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CurrentDonations)
	assert.Zero(t, got.Progress.TotalDonations)

	got, err = f.s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, got.CurrentDonations, 1)
	assert.Equal(t, 1, got.Progress.TotalDonations)

	var stored domain.Donation
	require.NoError(t, f.db.First(&stored, "id = ?", don.ID).Error)
	require.NotNil(t, stored.DriveID)
	assert.Equal(t, first.ID, *stored.DriveID)

	// Once the first drive is gone its stale reference no longer holds the donation.
	require.NoError(t, f.s.Delete(ctx, testutil.ActorFor(f.admin), first.ID))
	got, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.admin), second.ID, AttachDonationInput{DonationID: don.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Progress.TotalDonations)
}

func TestAssignLogistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)
	handler := testutil.CreateUser(t, f.db, constants.Logistics)

	_, err := f.s.AssignLogistics(ctx, testutil.ActorFor(handler), d.ID, AssignLogisticsInput{UserID: handler.ID.String()})
	assert.ErrorIs(t, err, access.ErrRoleNotAllowed)

	_, err = f.s.AssignLogistics(ctx, testutil.ActorFor(f.admin), d.ID, AssignLogisticsInput{UserID: f.donor.ID.String()})
	assert.ErrorIs(t, err, ErrNotLogisticsUser)

	_, err = f.s.AssignLogistics(ctx, testutil.ActorFor(f.admin), d.ID, AssignLogisticsInput{UserID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err := f.s.AssignLogistics(ctx, testutil.ActorFor(f.admin), d.ID, AssignLogisticsInput{UserID: handler.ID.String()})
	require.NoError(t, err)
	require.Len(t, got.Logistics, 1)
	assert.Equal(t, handler.ID, got.Logistics[0].UserID)

	_, err = f.s.AssignLogistics(ctx, testutil.ActorFor(f.admin), d.ID, AssignLogisticsInput{UserID: handler.ID.String()})
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestDelete_RemovesMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := testutil.CreateDrive(t, f.db, f.admin.ID)
	don := testutil.CreateDonation(t, f.db, f.donor.ID)
	_, err := f.s.JoinAsVolunteer(ctx, testutil.ActorFor(f.donor), d.ID, VolunteerInput{})
	require.NoError(t, err)
	_, err = f.s.AttachDonation(ctx, testutil.ActorFor(f.donor), d.ID, AttachDonationInput{DonationID: don.ID.String()})
	require.NoError(t, err)

	assert.ErrorIs(t, f.s.Delete(ctx, testutil.ActorFor(f.donor), d.ID), access.ErrRoleNotAllowed)
	require.NoError(t, f.s.Delete(ctx, testutil.ActorFor(f.admin), d.ID))

	_, err = f.s.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDriveNotFound)
	var n int64
	require.NoError(t, f.db.Model(&domain.DriveVolunteer{}).Where("drive_id = ?", d.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&domain.DriveDonation{}).Where("drive_id = ?", d.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&domain.Donation{}).Where("id = ?", don.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	assert.ErrorIs(t, f.s.Delete(ctx, testutil.ActorFor(f.admin), d.ID), ErrDriveNotFound)
}
