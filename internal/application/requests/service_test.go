package requests

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

func ptr[T any](v T) *T { return &v }

type fixture struct {
	s         *Service
	db        *gorm.DB
	admin     *domain.User
	logistics *domain.User
	recipient *domain.User
	donor     *domain.User
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	return fixture{
		s:         &Service{DB: db},
		db:        db,
		admin:     testutil.CreateUser(t, db, constants.Admin),
		logistics: testutil.CreateUser(t, db, constants.Logistics),
		recipient: testutil.CreateUser(t, db, constants.Recipient),
		donor:     testutil.CreateUser(t, db, constants.Donor),
	}
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	r, err := f.s.Create(context.Background(), testutil.ActorFor(f.recipient), CreateInput{
		Title:       "Rice for family",
		Description: "Five bags of rice for a family",
		Category:    constants.CategoryFood,
		Subcategory: "grains",
		Quantity:    5,
		Unit:        "bags",
		Priority:    constants.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestPending, r.Status)
	assert.Nil(t, r.MatchedDonationID)
	assert.Equal(t, constants.PriorityHigh, r.Priority)
	assert.Equal(t, constants.UrgencyNormal, r.Urgency)
	assert.Equal(t, f.recipient.ID, r.RecipientID)
}

func TestCreate_DonorDenied(t *testing.T) {
	f := newFixture(t)
	_, err := f.s.Create(context.Background(), testutil.ActorFor(f.donor), CreateInput{})
	assert.ErrorIs(t, err, access.ErrRoleNotAllowed)
}

func TestMatch_LeavesDonationUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := testutil.CreateRequest(t, f.db, f.recipient.ID, func(r *domain.Request) { r.Priority = constants.PriorityHigh })
	d := testutil.CreateDonation(t, f.db, f.donor.ID)

	got, err := f.s.Match(ctx, testutil.ActorFor(f.admin), r.ID, MatchInput{DonationID: d.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestMatched, got.Status)
	require.NotNil(t, got.MatchedDonationID)
	assert.Equal(t, d.ID, *got.MatchedDonationID)
	require.NotNil(t, got.LogisticsID)
	assert.Equal(t, f.admin.ID, *got.LogisticsID)

	var donation domain.Donation
	require.NoError(t, f.db.First(&donation, "id = ?", d.ID).Error)
	assert.Equal(t, constants.DonationAvailable, donation.Status)
	assert.Nil(t, donation.RecipientID)
	assert.Nil(t, donation.LogisticsID)
}

func TestMatch_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := testutil.CreateRequest(t, f.db, f.recipient.ID)
	d := testutil.CreateDonation(t, f.db, f.donor.ID)

	_, err := f.s.Match(ctx, testutil.ActorFor(f.recipient), r.ID, MatchInput{DonationID: d.ID.String()})
	assert.Equal(t, apperr.KindNotAuthorized, apperr.KindOf(err))

	_, err = f.s.Match(ctx, testutil.ActorFor(f.logistics), r.ID, MatchInput{})
	assert.ErrorIs(t, err, ErrDonationIDMissing)

	_, err = f.s.Match(ctx, testutil.ActorFor(f.logistics), uuid.New(), MatchInput{DonationID: d.ID.String()})
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = f.s.Match(ctx, testutil.ActorFor(f.logistics), r.ID, MatchInput{DonationID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrDonationNotFound)

	_, err = f.s.Match(ctx, testutil.ActorFor(f.logistics), r.ID, MatchInput{DonationID: d.ID.String()})
	require.NoError(t, err)
	_, err = f.s.Match(ctx, testutil.ActorFor(f.admin), r.ID, MatchInput{DonationID: d.ID.String()})
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestMatch_ConcurrentSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	r := testutil.CreateRequest(t, f.db, f.recipient.ID)
	d1 := testutil.CreateDonation(t, f.db, f.donor.ID)
	d2 := testutil.CreateDonation(t, f.db, f.donor.ID)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			donation := d1
			if i%2 == 1 {
				donation = d2
			}
			_, errs[i] = f.s.Match(context.Background(), testutil.ActorFor(f.logistics), r.ID, MatchInput{DonationID: donation.ID.String()})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrRequestNotPending)
	}
	assert.Equal(t, 1, successes)

	got, err := f.s.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestMatched, got.Status)
	assert.NotNil(t, got.MatchedDonationID)
}

func TestUpdate_StatusRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := testutil.ActorFor(f.recipient)
	r := testutil.CreateRequest(t, f.db, f.recipient.ID)

	_, err := f.s.Update(ctx, actor, r.ID, UpdateInput{Status: ptr(constants.RequestMatched)})
	assert.ErrorIs(t, err, ErrStatusNotEditable)

	_, err = f.s.Update(ctx, actor, r.ID, UpdateInput{Status: ptr(constants.RequestFulfilled)})
	assert.ErrorIs(t, err, ErrIllegalStatus)

	got, err := f.s.Update(ctx, actor, r.ID, UpdateInput{Status: ptr(constants.RequestCancelled), Quantity: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestCancelled, got.Status)
	assert.Equal(t, 2, got.Quantity)
	assert.Nil(t, got.MatchedDonationID)

	_, err = f.s.Update(ctx, actor, r.ID, UpdateInput{Status: ptr(constants.RequestFulfilled)})
	assert.ErrorIs(t, err, ErrIllegalStatus)
}

func TestUpdate_FulfilMatched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := testutil.CreateRequest(t, f.db, f.recipient.ID)
	d := testutil.CreateDonation(t, f.db, f.donor.ID)
	_, err := f.s.Match(ctx, testutil.ActorFor(f.logistics), r.ID, MatchInput{DonationID: d.ID.String()})
	require.NoError(t, err)

	got, err := f.s.Update(ctx, testutil.ActorFor(f.recipient), r.ID, UpdateInput{Status: ptr(constants.RequestFulfilled)})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestFulfilled, got.Status)
	require.NotNil(t, got.MatchedDonationID)
	assert.Equal(t, d.ID, *got.MatchedDonationID)
}

func TestUpdateDelete_NonOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := testutil.CreateRequest(t, f.db, f.recipient.ID)
	other := testutil.CreateUser(t, f.db, constants.Recipient)

	_, err := f.s.Update(ctx, testutil.ActorFor(other), r.ID, UpdateInput{Title: ptr("Changed title")})
	assert.ErrorIs(t, err, access.ErrNotOwner)
	assert.ErrorIs(t, f.s.Delete(ctx, testutil.ActorFor(f.logistics), r.ID), access.ErrNotOwner)

	require.NoError(t, f.s.Delete(ctx, testutil.ActorFor(f.admin), r.ID))
	_, err = f.s.Get(ctx, r.ID)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestList_OrderedByPriorityUrgencyThenNewest(t *testing.T) {
	f := newFixture(t)
	base := time.Now().Add(-time.Hour)
	mk := func(priority, urgency string, minutes int) uuid.UUID {
		return testutil.CreateRequest(t, f.db, f.recipient.ID, func(r *domain.Request) {
			r.Priority = priority
			r.Urgency = urgency
			r.CreatedAt = base.Add(time.Duration(minutes) * time.Minute)
		}).ID
	}
	low := mk(constants.PriorityLow, constants.UrgencyCritical, 50)
	highNormalOld := mk(constants.PriorityHigh, constants.UrgencyNormal, 1)
	highNormalNew := mk(constants.PriorityHigh, constants.UrgencyNormal, 2)
	highCritical := mk(constants.PriorityHigh, constants.UrgencyCritical, 0)
	urgent := mk(constants.PriorityUrgent, constants.UrgencyNormal, 0)
	medium := mk(constants.PriorityMedium, constants.UrgencyEmergency, 10)

	page, err := f.s.List(context.Background(), Filter{}, pagination.New(1, 10, 10))
	require.NoError(t, err)
	var ids []uuid.UUID
	for _, r := range page.Items {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []uuid.UUID{urgent, highCritical, highNormalNew, highNormalOld, medium, low}, ids)

	page, err = f.s.List(context.Background(), Filter{Priority: constants.PriorityHigh, Urgency: constants.UrgencyNormal}, pagination.New(1, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []uuid.UUID{highNormalNew}, []uuid.UUID{page.Items[0].ID})

	mine, err := f.s.ListByRecipient(context.Background(), f.recipient.ID, pagination.New(1, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(6), mine.Total)
}
