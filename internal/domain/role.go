package domain

// Role is the closed set of caller profiles recognized at the API boundary.
// Authentication itself happens upstream; the service only checks that the
// authenticated role is allowed to perform the requested operation.
type Role string

const (
	RoleManager Role = "Manager"
	RoleIntake  Role = "Intake"
	RoleDriver  Role = "Driver"
	RoleAdmin   Role = "Admin"
)

// ParseRole validates a role string from the identity header.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RoleIntake, RoleDriver, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrValidation
}

// Operation names a protected API capability.
type Operation string

const (
	OpManageTrips     Operation = "manage_trips"
	OpSubmitCandidacy Operation = "submit_candidacy"
	OpDecideAdmission Operation = "decide_admission"
	OpViewManifest    Operation = "view_manifest"
	OpRecordBoarding  Operation = "record_boarding"
)

// capabilities maps each operation to the roles allowed to perform it.
// Admin is a member of every set.
var capabilities = map[Operation]map[Role]struct{}{
	OpManageTrips:     {RoleManager: {}, RoleAdmin: {}},
	OpSubmitCandidacy: {RoleIntake: {}, RoleManager: {}, RoleAdmin: {}},
	OpDecideAdmission: {RoleManager: {}, RoleAdmin: {}},
	OpViewManifest:    {RoleDriver: {}, RoleManager: {}, RoleAdmin: {}},
	OpRecordBoarding:  {RoleDriver: {}, RoleAdmin: {}},
}

// Can reports whether the role may perform op.
func (r Role) Can(op Operation) bool {
	allowed, ok := capabilities[op]
	if !ok {
		return false
	}
	_, ok = allowed[r]
	return ok
}
