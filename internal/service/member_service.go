package service

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/storage"
)

// RefreshTokenRevoker is the slice of the auth repository the directory
// needs when it retires an account.
type RefreshTokenRevoker interface {
	DeleteByUserID(ctx context.Context, userID string) error
}

// MemberService is the member directory: the public lookup, the org-wide
// user listing, account retirement, and the avatar and ID-card images.
type MemberService struct {
	users   UserStore
	teams   TeamStore
	tokens  RefreshTokenRevoker
	storage storage.Storage
	roster  *RosterService
}

// NewMemberService creates a member directory service. tokens and roster
// may be nil in trimmed-down wirings.
func NewMemberService(users UserStore, teams TeamStore, tokens RefreshTokenRevoker, st storage.Storage, roster *RosterService) *MemberService {
	return &MemberService{
		users:   users,
		teams:   teams,
		tokens:  tokens,
		storage: st,
		roster:  roster,
	}
}

// PublicMember is the unauthenticated lookup view of a member. It exposes
// only what a volunteer would print on their badge; email, phone and role
// stay private.
type PublicMember struct {
	FullName  string `json:"full_name"`
	StudentID string `json:"student_id,omitempty"`
	Faculty   string `json:"faculty,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
	TeamName  string `json:"team_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Lookup searches approved members by exact student ID or name prefix.
// Anonymous callers use this to check whether someone really is a
// volunteer, so only members and team admins are ever returned.
func (s *MemberService) Lookup(ctx context.Context, studentID, name string, limit int64) ([]*PublicMember, error) {
	if studentID == "" && name == "" {
		return nil, apperr.Validation("provide student_id or name to search")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	users, err := s.users.SearchPublic(ctx, studentID, name, limit)
	if err != nil {
		return nil, err
	}

	teamNames, err := s.teamNames(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load team names for lookup")
		teamNames = map[string]string{}
	}

	results := make([]*PublicMember, 0, len(users))
	for _, u := range users {
		m := &PublicMember{TeamID: u.TeamID, TeamName: teamNames[u.TeamID], AvatarURL: u.AvatarURL}
		if u.Profile != nil {
			m.FullName = u.Profile.FullName
			m.StudentID = u.Profile.StudentID
			m.Faculty = u.Profile.Faculty
		}
		results = append(results, m)
	}
	return results, nil
}

// ListUsers returns a page of the org-wide user directory, optionally
// filtered by role. Super admin only.
func (s *MemberService) ListUsers(ctx context.Context, actorID string, role user.Role, page, pageSize int64) ([]*user.User, int64, error) {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, 0, err
	}
	if role != "" && !role.IsValid() {
		return nil, 0, apperr.Validation("unknown role %q", role)
	}

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	return s.users.List(ctx, filter, page, pageSize)
}

// RetireUser soft-deletes an account and revokes its sessions. The record
// stays in the collection for audit but disappears from every read path.
func (s *MemberService) RetireUser(ctx context.Context, userID, actorID string) error {
	if err := s.requireSuperAdmin(ctx, actorID); err != nil {
		return err
	}
	if userID == actorID {
		return apperr.Conflict("cannot retire your own account")
	}

	target, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.SoftDelete(ctx, userID); err != nil {
		return err
	}

	if s.tokens != nil {
		if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to revoke refresh tokens")
		}
	}
	if s.roster != nil && target.TeamID != "" {
		s.roster.InvalidateStats(ctx, target.TeamID)
	}

	log.Info().
		Str("user_id", userID).
		Str("actor_id", actorID).
		Msg("user retired")

	return nil
}

// UploadAvatar stores a new avatar image for the user and records its URL.
// Users manage only their own avatar.
func (s *MemberService) UploadAvatar(ctx context.Context, userID string, data io.Reader, contentType string) (string, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, storage.AvatarKey(userID), data, contentType)
	if err != nil {
		return "", apperr.TransientIO(err, "failed to store avatar")
	}
	if err := s.users.SetAvatarURL(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

// UploadCard stores the rendered ID-card image and stamps the issue time.
// Only approved members carry a card; a pending applicant has nothing to
// print yet.
func (s *MemberService) UploadCard(ctx context.Context, userID string, data io.Reader, contentType string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.Role == user.RolePending {
		return "", apperr.Conflict("user %s is not an approved member yet", userID)
	}

	url, err := s.storage.Upload(ctx, storage.CardKey(userID), data, contentType)
	if err != nil {
		return "", apperr.TransientIO(err, "failed to store id card")
	}
	if err := s.users.SetCard(ctx, userID, url, time.Now()); err != nil {
		return "", err
	}

	if s.roster != nil && u.TeamID != "" {
		s.roster.InvalidateStats(ctx, u.TeamID)
	}

	log.Info().Str("user_id", userID).Msg("id card issued")
	return url, nil
}

// CardDownloadURL returns a time-limited download link for a member's card.
func (s *MemberService) CardDownloadURL(ctx context.Context, userID string, expiresIn time.Duration) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.CardURL == "" {
		return "", apperr.NotFound("user %s has no issued card", userID)
	}
	url, err := s.storage.GetPresignedDownloadURL(ctx, storage.CardKey(userID), expiresIn)
	if err != nil {
		return "", apperr.TransientIO(err, "failed to sign card url")
	}
	return url, nil
}

func (s *MemberService) teamNames(ctx context.Context) (map[string]string, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}

func (s *MemberService) requireSuperAdmin(ctx context.Context, actorID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Authorization("acting principal %s not found", actorID)
		}
		return err
	}
	if actor.Role != user.RoleSuperAdmin {
		return apperr.Authorization("user %s (%s) may not manage the directory", actorID, actor.Role)
	}
	return nil
}
