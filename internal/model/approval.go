package model

import "time"

type ApprovalRole string

const (
	RoleChief    ApprovalRole = "Chief"
	RoleSurveyor ApprovalRole = "Surveyor"
)

// RequiredRoles returns the closed set of roles whose sign-offs are
// jointly required to mark a parcel verified.
func RequiredRoles() []ApprovalRole {
	return []ApprovalRole{RoleChief, RoleSurveyor}
}

func (role ApprovalRole) IsValid() bool {
	for _, required := range RequiredRoles() {
		if role == required {
			return true
		}
	}
	return false
}

func (role ApprovalRole) String() string {
	return string(role)
}

// Approval is one authorized role's sign-off on a parcel.
// The name is not cryptographically bound to an inspector identity.
type Approval struct {
	Role       ApprovalRole `json:"role"`
	Name       string       `json:"name"`
	ApprovedAt time.Time    `json:"approvedAt"`
}
