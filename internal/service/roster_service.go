package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/cache"
)

// RosterService manages team membership and the per-team admin positions
// (captain and two deputies). Assigning a position promotes the user to
// team_admin; both writes run in one transaction.
type RosterService struct {
	users UserStore
	teams TeamStore
	txn   TxnRunner
	stats StatsCache // optional, may be nil

	// demotePrevious controls whether the displaced occupant of a
	// reassigned position is reverted to plain member.
	demotePrevious bool
	statsTTL       time.Duration
}

// NewRosterService creates a roster service. stats may be nil, in which
// case every stats read recomputes the counts.
func NewRosterService(users UserStore, teams TeamStore, txn TxnRunner, stats StatsCache, demotePrevious bool, statsTTL time.Duration) *RosterService {
	if statsTTL <= 0 {
		statsTTL = 5 * time.Minute
	}
	return &RosterService{
		users:          users,
		teams:          teams,
		txn:            txn,
		stats:          stats,
		demotePrevious: demotePrevious,
		statsTTL:       statsTTL,
	}
}

// AssignAdmin places userID into the given admin position of teamID and
// promotes them to team_admin. Only a super admin may do this: a team
// admin cannot mint admins, not even for their own team, and certainly
// not for another one. The target must already be an approved member;
// a pending applicant cannot be promoted directly.
func (s *RosterService) AssignAdmin(ctx context.Context, teamID string, pos user.Position, userID, actorID string) error {
	if !pos.IsValid() {
		return apperr.Validation("unknown team position %q", pos)
	}

	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return err
	}

	t, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.Role != user.RoleMember && target.Role != user.RoleTeamAdmin {
		return apperr.Conflict("user %s is %s, only approved members can hold a position", userID, target.Role)
	}

	previous := t.Admins.Get(pos)
	if previous == userID {
		return nil // already in place
	}

	err = s.txn.InTransaction(ctx, func(ctx context.Context) error {
		if previous != "" && s.demotePrevious {
			if err := s.users.ClearTeamPosition(ctx, previous); err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
				return err
			}
		}
		if err := s.teams.SetAdmin(ctx, teamID, pos, userID); err != nil {
			return err
		}
		return s.users.AssignTeam(ctx, userID, teamID, pos)
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx, teamID, target.TeamID)

	log.Info().
		Str("team_id", teamID).
		Str("position", pos.String()).
		Str("user_id", userID).
		Str("previous", previous).
		Str("actor_id", actorID).
		Msg("team admin assigned")

	return nil
}

// AddMember places an approved member into a team. The actor must be a
// super admin or an admin of that team.
func (s *RosterService) AddMember(ctx context.Context, teamID, userID, actorID string) error {
	if err := s.requireTeamScope(ctx, actorID, teamID); err != nil {
		return err
	}

	if _, err := s.teams.FindByID(ctx, teamID); err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if target.Role != user.RoleMember && target.Role != user.RoleTeamAdmin {
		return apperr.Conflict("user %s is %s, only approved members can join a team", userID, target.Role)
	}

	if err := s.users.SetTeam(ctx, userID, teamID); err != nil {
		return err
	}

	s.invalidateStats(ctx, teamID, target.TeamID)

	log.Info().
		Str("team_id", teamID).
		Str("user_id", userID).
		Str("actor_id", actorID).
		Msg("member added to team")

	return nil
}

// Rename updates a team's mutable fields (display name, zalo link).
func (s *RosterService) Rename(ctx context.Context, teamID, name, zaloLink, actorID string) error {
	if err := s.requireTeamScope(ctx, actorID, teamID); err != nil {
		return err
	}
	return s.teams.Rename(ctx, teamID, name, zaloLink)
}

// GetTeam loads one team.
func (s *RosterService) GetTeam(ctx context.Context, teamID string) (*team.Team, error) {
	return s.teams.FindByID(ctx, teamID)
}

// ListTeams returns the full roster.
func (s *RosterService) ListTeams(ctx context.Context) ([]*team.Team, error) {
	return s.teams.List(ctx)
}

// ListMembers returns a page of a team's members. Scoped like AddMember.
func (s *RosterService) ListMembers(ctx context.Context, teamID, actorID string, page, pageSize int64) ([]*user.User, int64, error) {
	if err := s.requireTeamScope(ctx, actorID, teamID); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, memberFilter(teamID), page, pageSize)
}

// Stats returns the derived counters for a team, read through the cache.
// The counts are recomputed from the users collection on miss; they are a
// bounded-staleness convenience, not an authoritative aggregate.
func (s *RosterService) Stats(ctx context.Context, teamID string) (*team.Stats, error) {
	key := cache.TeamStatsKey(teamID)

	if s.stats != nil {
		var cached team.Stats
		if err := s.stats.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	members, err := s.users.CountMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	cards, err := s.users.CountCards(ctx, teamID)
	if err != nil {
		return nil, err
	}

	st := &team.Stats{MemberCount: members, CardCount: cards}

	if s.stats != nil {
		if err := s.stats.Set(ctx, key, st, s.statsTTL); err != nil {
			log.Warn().Err(err).Str("team_id", teamID).Msg("failed to cache team stats")
		}
	}

	return st, nil
}

// CreateTeam bootstraps a new team document. Super admin only.
func (s *RosterService) CreateTeam(ctx context.Context, teamID, name, zaloLink, actorID string) (*team.Team, error) {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if teamID == "" || name == "" {
		return nil, apperr.Validation("team id and name are required")
	}

	t := &team.Team{
		ID:       teamID,
		Name:     name,
		ZaloLink: zaloLink,
	}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// InvalidateStats drops the cached counters for the given teams. Exposed
// for collaborators (card issue, soft delete) that change the counts
// without going through this service's mutation paths.
func (s *RosterService) InvalidateStats(ctx context.Context, teamIDs ...string) {
	s.invalidateStats(ctx, teamIDs...)
}

func (s *RosterService) invalidateStats(ctx context.Context, teamIDs ...string) {
	if s.stats == nil {
		return
	}
	keys := make([]string, 0, len(teamIDs))
	for _, id := range teamIDs {
		if id != "" {
			keys = append(keys, cache.TeamStatsKey(id))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.stats.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("teams", teamIDs).Msg("failed to invalidate team stats")
	}
}

// requireSuperAdmin re-loads the actor rather than trusting a stale token
// role claim.
func (s *RosterService) requireSuperAdmin(ctx context.Context, actorID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Authorization("acting principal %s not found", actorID)
		}
		return err
	}
	if actor.Role != user.RoleSuperAdmin {
		return apperr.Authorization("user %s (%s) may not manage team admins", actorID, actor.Role)
	}
	return nil
}

// requireTeamScope allows super admins everywhere and team admins only
// within their own team.
func (s *RosterService) requireTeamScope(ctx context.Context, actorID, teamID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Authorization("acting principal %s not found", actorID)
		}
		return err
	}
	switch actor.Role {
	case user.RoleSuperAdmin:
		return nil
	case user.RoleTeamAdmin:
		if actor.TeamID == teamID {
			return nil
		}
		return apperr.Authorization("user %s administers team %s, not %s", actorID, actor.TeamID, teamID)
	default:
		return apperr.Authorization("user %s (%s) may not manage team %s", actorID, actor.Role, teamID)
	}
}

func memberFilter(teamID string) bson.M {
	return bson.M{
		"team_id": teamID,
		"role":    bson.M{"$in": bson.A{user.RoleMember, user.RoleTeamAdmin}},
	}
}
