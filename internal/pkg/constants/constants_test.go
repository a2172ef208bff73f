package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedRole(t *testing.T) {
	assert.True(t, AllowedRole(CreateDonation, Donor))
	assert.False(t, AllowedRole(CreateDonation, Recipient))
	assert.True(t, AllowedRole(CreateRequest, Recipient))
	assert.True(t, AllowedRole(CreateDrive, Admin))
	assert.False(t, AllowedRole(CreateDrive, Logistics))
	assert.True(t, AllowedRole(MatchRequest, Logistics))
	assert.True(t, AllowedRole(MatchRequest, Admin))
	assert.False(t, AllowedRole(MatchRequest, Donor))
	assert.False(t, AllowedRole("unknown_permission", Admin))
}

func TestRanks(t *testing.T) {
	assert.Less(t, PriorityRank(PriorityUrgent), PriorityRank(PriorityHigh))
	assert.Less(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Less(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
	assert.Equal(t, len(PriorityOrder), PriorityRank("bogus"))
	assert.Less(t, UrgencyRank(UrgencyCritical), UrgencyRank(UrgencyEmergency))
	assert.Less(t, UrgencyRank(UrgencyEmergency), UrgencyRank(UrgencyNormal))
}

func TestDonationTransitions(t *testing.T) {
	assert.True(t, CanTransitionDonation(DonationAvailable, DonationReserved))
	assert.True(t, CanTransitionDonation(DonationAvailable, DonationExpired))
	assert.True(t, CanTransitionDonation(DonationReserved, DonationDonated))
	assert.True(t, CanTransitionDonation(DonationReserved, DonationExpired))
	assert.False(t, CanTransitionDonation(DonationAvailable, DonationDonated))
	assert.False(t, CanTransitionDonation(DonationDonated, DonationExpired))
	assert.False(t, CanTransitionDonation(DonationExpired, DonationAvailable))
}

func TestRequestTransitions(t *testing.T) {
	assert.True(t, CanTransitionRequest(RequestPending, RequestMatched))
	assert.True(t, CanTransitionRequest(RequestPending, RequestCancelled))
	assert.True(t, CanTransitionRequest(RequestMatched, RequestFulfilled))
	assert.True(t, CanTransitionRequest(RequestMatched, RequestCancelled))
	assert.False(t, CanTransitionRequest(RequestPending, RequestFulfilled))
	assert.False(t, CanTransitionRequest(RequestFulfilled, RequestCancelled))
	assert.False(t, CanTransitionRequest(RequestCancelled, RequestPending))

	assert.ElementsMatch(t, []string{RequestPending, RequestMatched}, RequestSourcesFor(RequestCancelled))
	assert.Equal(t, []string{RequestMatched}, RequestSourcesFor(RequestFulfilled))
}
