package constants

const (
	CreateDonation   = "create_donation"
	CreateRequest    = "create_request"
	CreateDrive      = "create_drive"
	ManageDrives     = "manage_drives"
	MatchRequest     = "match_request"
	TransitionStatus = "transition_donation_status"
	ListUsers        = "list_users"
	ChangeRole       = "change_role"
	DeleteUser       = "delete_user"
	AssignLogistics  = "assign_logistics"
	ViewReports      = "view_reports"
)

// PermissionRoles is the baseline role table. Ownership rules on top of it live in the access guard.
var PermissionRoles = map[string][]string{
	CreateDonation:   {Donor},
	CreateRequest:    {Recipient},
	CreateDrive:      {Admin},
	ManageDrives:     {Admin},
	MatchRequest:     {Admin, Logistics},
	TransitionStatus: {Admin, Logistics},
	ListUsers:        {Admin},
	ChangeRole:       {Admin},
	DeleteUser:       {Admin},
	AssignLogistics:  {Admin},
	ViewReports:      {Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	return contains(roles, role)
}
