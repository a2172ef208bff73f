package constants

const (
	Admin     = "admin"
	Donor     = "donor"
	Recipient = "recipient"
	Logistics = "logistics"
)

// ValidRoles is the set of allowed values for users.role.
var ValidRoles = []string{Admin, Donor, Recipient, Logistics}

// SelfServiceRoles can be chosen at registration; admin accounts are seeded or promoted.
var SelfServiceRoles = []string{Donor, Recipient, Logistics}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	return contains(ValidRoles, role)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
