package service

import (
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
)

// Surface is an application surface the frontend can land on.
type Surface string

const (
	SurfaceRegistrationIntake Surface = "registration-intake"
	SurfaceMemberHome         Surface = "member-home"
	SurfaceTeamAdminPanel     Surface = "team-admin-panel"
	SurfaceOrgAdminPanel      Surface = "org-admin-panel"
)

// Destination tells the frontend where an authenticated user belongs.
// TeamID is set only for the team admin panel.
type Destination struct {
	Surface Surface `json:"surface"`
	TeamID  string  `json:"team_id,omitempty"`
}

// Route maps a loaded user record to its one destination surface. Total
// over the role enum: every role value has exactly one destination and an
// unrecognized role is a validation error, never a silent default; a
// corrupt role must not route anywhere. A nil record (authenticated
// principal with nothing stored yet) is treated as pending.
//
// Authentication itself is a precondition; unauthenticated requests never
// reach this function.
func Route(u *user.User) (Destination, error) {
	if u == nil {
		return Destination{Surface: SurfaceRegistrationIntake}, nil
	}

	switch u.Role {
	case user.RolePending:
		return Destination{Surface: SurfaceRegistrationIntake}, nil
	case user.RoleMember:
		return Destination{Surface: SurfaceMemberHome}, nil
	case user.RoleTeamAdmin:
		return Destination{Surface: SurfaceTeamAdminPanel, TeamID: u.TeamID}, nil
	case user.RoleSuperAdmin:
		return Destination{Surface: SurfaceOrgAdminPanel}, nil
	default:
		return Destination{}, apperr.Validation("unknown role %q", u.Role)
	}
}
