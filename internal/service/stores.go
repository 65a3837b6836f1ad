package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"tinhnguyen/internal/model/registration"
	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
)

// Store interfaces consumed by the services. The mongo repositories are the
// production implementations; tests substitute in-memory fakes.

// UserStore is the users collection as seen by the services.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	SetRole(ctx context.Context, id string, role user.Role) error
	SetProfile(ctx context.Context, id string, p *user.Profile) error
	AssignTeam(ctx context.Context, id, teamID string, pos user.Position) error
	ClearTeamPosition(ctx context.Context, id string) error
	SetTeam(ctx context.Context, id, teamID string) error
	SetAvatarURL(ctx context.Context, id, url string) error
	SetCard(ctx context.Context, id, url string, issuedAt time.Time) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filter bson.M, page, pageSize int64) ([]*user.User, int64, error)
	SearchPublic(ctx context.Context, studentID, name string, limit int64) ([]*user.User, error)
	CountMembers(ctx context.Context, teamID string) (int64, error)
	CountCards(ctx context.Context, teamID string) (int64, error)
}

// RegistrationStore is the registration_requests collection.
type RegistrationStore interface {
	Create(ctx context.Context, req *registration.Request) error
	FindByID(ctx context.Context, id string) (*registration.Request, error)
	FindPendingByApplicant(ctx context.Context, applicantID string) (*registration.Request, error)
	Resolve(ctx context.Context, id string, to registration.Status, reviewerID string, reviewedAt time.Time) (bool, error)
	List(ctx context.Context, status registration.Status, page, pageSize int64) ([]*registration.Request, int64, error)
}

// TeamStore is the teams collection.
type TeamStore interface {
	Create(ctx context.Context, t *team.Team) error
	FindByID(ctx context.Context, id string) (*team.Team, error)
	List(ctx context.Context) ([]*team.Team, error)
	Rename(ctx context.Context, id, name, zaloLink string) error
	SetAdmin(ctx context.Context, id string, pos user.Position, userID string) error
	Count(ctx context.Context) (int64, error)
}

// TxnRunner runs a function inside one atomic multi-document transaction.
// Implemented by mongodb.Client; the no-op NopTxn is for deployments and
// tests without a replica set.
type TxnRunner interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTxn runs the function directly, without transactional guarantees.
// The status=pending preconditions on the individual writes still prevent
// double resolution; only the all-or-nothing property is lost.
type NopTxn struct{}

// InTransaction invokes fn with the unmodified context.
func (NopTxn) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// StatsCache is the slice of the redis cache the roster service needs.
type StatsCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
