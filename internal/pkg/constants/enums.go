package constants

// Item categories shared by donations and requests.
const (
	CategoryFood      = "food"
	CategoryClothing  = "clothing"
	CategoryMedical   = "medical"
	CategoryShelter   = "shelter"
	CategoryEducation = "education"
	CategoryOther     = "other"
	CategoryMixed     = "mixed"
)

const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionPoor    = "poor"
)

const (
	DeliveryPending   = "pending"
	DeliveryScheduled = "scheduled"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

const (
	DonationAvailable = "available"
	DonationReserved  = "reserved"
	DonationDonated   = "donated"
	DonationExpired   = "expired"
)

const (
	RequestPending   = "pending"
	RequestMatched   = "matched"
	RequestFulfilled = "fulfilled"
	RequestCancelled = "cancelled"
)

// Priority values, most pressing first.
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Urgency values, most pressing first.
const (
	UrgencyCritical  = "critical"
	UrgencyEmergency = "emergency"
	UrgencyNormal    = "normal"
)

const (
	DriveUpcoming  = "upcoming"
	DriveActive    = "active"
	DriveCompleted = "completed"
	DriveCancelled = "cancelled"
)

const (
	EmergencyNaturalDisaster = "natural_disaster"
	EmergencyPandemic        = "pandemic"
	EmergencyConflict        = "conflict"
	EmergencyEconomicCrisis  = "economic_crisis"
	EmergencyOther           = "other"
)

// DefaultVolunteerRole is stored when a volunteer does not pick a role label.
const DefaultVolunteerRole = "volunteer"

// PriorityOrder and UrgencyOrder define the request listing order; index is the rank.
var (
	PriorityOrder = []string{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	UrgencyOrder  = []string{UrgencyCritical, UrgencyEmergency, UrgencyNormal}
)

// PriorityRank returns the position of p in PriorityOrder, or len(PriorityOrder) for unknown values.
func PriorityRank(p string) int {
	return rank(PriorityOrder, p)
}

// UrgencyRank returns the position of u in UrgencyOrder, or len(UrgencyOrder) for unknown values.
func UrgencyRank(u string) int {
	return rank(UrgencyOrder, u)
}

func rank(order []string, v string) int {
	for i, s := range order {
		if s == v {
			return i
		}
	}
	return len(order)
}
