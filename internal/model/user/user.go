package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tinhnguyen/internal/pkg/apperr"
)

// User is the account document of one campaign participant.
// IDs are UUID strings to avoid ObjectID conversions.
type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Email        string     `bson:"email" json:"email"`
	Password     string     `bson:"password" json:"-"` // bcrypt hash, never serialized
	Role         Role       `bson:"role" json:"role"`
	TeamID       string     `bson:"team_id,omitempty" json:"team_id,omitempty"`
	TeamPosition Position   `bson:"team_position,omitempty" json:"team_position,omitempty"`
	Profile      *Profile   `bson:"profile,omitempty" json:"profile,omitempty"`
	AvatarURL    string     `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	CardURL      string     `bson:"card_url,omitempty" json:"card_url,omitempty"`
	CardIssuedAt *time.Time `bson:"card_issued_at,omitempty" json:"card_issued_at,omitempty"`
	Deleted      bool       `bson:"deleted" json:"-"` // soft-delete flag
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// Profile holds the applicant's business data. Filled in when the
// registration is submitted and not involved in any state logic.
type Profile struct {
	FullName  string `bson:"full_name" json:"full_name"`
	StudentID string `bson:"student_id" json:"student_id"`
	Faculty   string `bson:"faculty,omitempty" json:"faculty,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Role is the access level attached to a user record.
//
// Promotion only moves forward in-band: pending → member → team_admin.
// super_admin is reachable only through the init-admin bootstrap.
type Role string

const (
	RolePending    Role = "pending"
	RoleMember     Role = "member"
	RoleTeamAdmin  Role = "team_admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsValid reports whether the role is a known enum value.
func (r Role) IsValid() bool {
	switch r {
	case RolePending, RoleMember, RoleTeamAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// String returns the role string.
func (r Role) String() string {
	return string(r)
}

// ParseRole validates a raw role value. An unrecognized value is a
// validation error, never coerced to a default; a corrupt role must not
// silently gain or lose access.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", apperr.Validation("unknown role %q", s)
	}
	return r, nil
}

// Position is a team admin position.
type Position string

const (
	PositionCaptain Position = "captain"
	PositionDeputy1 Position = "deputy_1"
	PositionDeputy2 Position = "deputy_2"
)

// Positions lists every valid position.
func Positions() []Position {
	return []Position{PositionCaptain, PositionDeputy1, PositionDeputy2}
}

// IsValid reports whether the position is a known enum value.
func (p Position) IsValid() bool {
	switch p {
	case PositionCaptain, PositionDeputy1, PositionDeputy2:
		return true
	}
	return false
}

// String returns the position string.
func (p Position) String() string {
	return string(p)
}

// ParsePosition validates a raw position value.
func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if !p.IsValid() {
		return "", apperr.Validation("unknown team position %q", s)
	}
	return p, nil
}

// CheckInvariants verifies the record-level invariants:
// pending users carry no team, members and team admins must have one,
// and a team position is only meaningful for a team admin.
func (u *User) CheckInvariants() error {
	if !u.Role.IsValid() {
		return apperr.Validation("unknown role %q", u.Role)
	}
	switch u.Role {
	case RolePending:
		if u.TeamID != "" {
			return apperr.Validation("pending user %s must not have a team", u.ID)
		}
	case RoleMember, RoleTeamAdmin:
		if u.TeamID == "" {
			// members may briefly be teamless between approval and team
			// assignment; only a set position without a team is invalid
			if u.TeamPosition != "" {
				return apperr.Validation("user %s has a position but no team", u.ID)
			}
		}
	}
	if u.TeamPosition != "" {
		if !u.TeamPosition.IsValid() {
			return apperr.Validation("unknown team position %q", u.TeamPosition)
		}
		if u.Role != RoleTeamAdmin {
			return apperr.Validation("user %s holds position %s without team_admin role", u.ID, u.TeamPosition)
		}
	}
	return nil
}

// Collection returns the collection name.
func (u *User) Collection() string {
	return "users"
}

// EnsureIndexes creates the users collection indexes.
func (u *User) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(u.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email").SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "profile.student_id", Value: 1}},
			Options: options.Index().SetName("idx_student_id").
				SetPartialFilterExpression(bson.M{"profile.student_id": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{bson.E{Key: "role", Value: 1}, bson.E{Key: "team_id", Value: 1}},
			Options: options.Index().SetName("idx_role_team"),
		},
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
