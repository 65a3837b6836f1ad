package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"tinhnguyen/internal/model/registration"
	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
)

// In-memory store fakes. They honor the same error contracts as the mongo
// repositories (apperr kinds at the boundary) so the services under test
// cannot tell the difference.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newFakeUserStore(users ...*user.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*user.User)}
	for _, u := range users {
		cp := *u
		s.users[u.ID] = &cp
	}
	return s
}

func (s *fakeUserStore) get(id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok || u.Deleted {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return u, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) SetRole(_ context.Context, id string, role user.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (s *fakeUserStore) SetProfile(_ context.Context, id string, p *user.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	cp := *p
	u.Profile = &cp
	return nil
}

func (s *fakeUserStore) AssignTeam(_ context.Context, id, teamID string, pos user.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.Role = user.RoleTeamAdmin
	u.TeamID = teamID
	u.TeamPosition = pos
	return nil
}

func (s *fakeUserStore) ClearTeamPosition(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.Role = user.RoleMember
	u.TeamPosition = ""
	return nil
}

func (s *fakeUserStore) SetTeam(_ context.Context, id, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.TeamID = teamID
	return nil
}

func (s *fakeUserStore) SetAvatarURL(_ context.Context, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.AvatarURL = url
	return nil
}

func (s *fakeUserStore) SetCard(_ context.Context, id, url string, issuedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.CardURL = url
	u.CardIssuedAt = &issuedAt
	return nil
}

func (s *fakeUserStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.get(id)
	if err != nil {
		return err
	}
	u.Deleted = true
	return nil
}

func (s *fakeUserStore) List(_ context.Context, filter bson.M, page, pageSize int64) ([]*user.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*user.User
	for _, u := range s.users {
		if u.Deleted {
			continue
		}
		if !matchesFilter(u, filter) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func matchesFilter(u *user.User, filter bson.M) bool {
	if teamID, ok := filter["team_id"].(string); ok && u.TeamID != teamID {
		return false
	}
	switch role := filter["role"].(type) {
	case user.Role:
		if u.Role != role {
			return false
		}
	case bson.M:
		in, _ := role["$in"].(bson.A)
		found := false
		for _, r := range in {
			if rr, ok := r.(user.Role); ok && u.Role == rr {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *fakeUserStore) SearchPublic(_ context.Context, studentID, name string, limit int64) ([]*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*user.User
	for _, u := range s.users {
		if u.Deleted || (u.Role != user.RoleMember && u.Role != user.RoleTeamAdmin) {
			continue
		}
		if u.Profile == nil {
			continue
		}
		if studentID != "" && u.Profile.StudentID != studentID {
			continue
		}
		if studentID == "" && name != "" && !hasPrefixFold(u.Profile.FullName, name) {
			continue
		}
		cp := *u
		out = append(out, &cp)
		if int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

func (s *fakeUserStore) CountMembers(_ context.Context, teamID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if !u.Deleted && u.TeamID == teamID && (u.Role == user.RoleMember || u.Role == user.RoleTeamAdmin) {
			n++
		}
	}
	return n, nil
}

func (s *fakeUserStore) CountCards(_ context.Context, teamID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if !u.Deleted && u.TeamID == teamID && u.CardURL != "" {
			n++
		}
	}
	return n, nil
}

type fakeRegistrationStore struct {
	mu       sync.Mutex
	requests map[string]*registration.Request
}

func newFakeRegistrationStore(reqs ...*registration.Request) *fakeRegistrationStore {
	s := &fakeRegistrationStore{requests: make(map[string]*registration.Request)}
	for _, r := range reqs {
		cp := *r
		s.requests[r.ID] = &cp
	}
	return s
}

func (s *fakeRegistrationStore) Create(_ context.Context, req *registration.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[req.ID]; ok {
		return apperr.Conflict("request %s already exists", req.ID)
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *fakeRegistrationStore) FindByID(_ context.Context, id string) (*registration.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, apperr.NotFound("request %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRegistrationStore) FindPendingByApplicant(_ context.Context, applicantID string) (*registration.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.ApplicantID == applicantID && r.Status == registration.StatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("no pending request for %s", applicantID)
}

func (s *fakeRegistrationStore) Resolve(_ context.Context, id string, to registration.Status, reviewerID string, reviewedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || r.Status != registration.StatusPending {
		return false, nil
	}
	r.Status = to
	r.ReviewerID = reviewerID
	r.ReviewedAt = &reviewedAt
	return true, nil
}

func (s *fakeRegistrationStore) List(_ context.Context, status registration.Status, page, pageSize int64) ([]*registration.Request, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*registration.Request
	for _, r := range s.requests {
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

type fakeTeamStore struct {
	mu    sync.Mutex
	teams map[string]*team.Team
}

func newFakeTeamStore(teams ...*team.Team) *fakeTeamStore {
	s := &fakeTeamStore{teams: make(map[string]*team.Team)}
	for _, t := range teams {
		cp := *t
		s.teams[t.ID] = &cp
	}
	return s
}

func (s *fakeTeamStore) Create(_ context.Context, t *team.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[t.ID]; ok {
		return apperr.Conflict("team %s already exists", t.ID)
	}
	cp := *t
	s.teams[t.ID] = &cp
	return nil
}

func (s *fakeTeamStore) FindByID(_ context.Context, id string) (*team.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, apperr.NotFound("team %s not found", id)
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTeamStore) List(_ context.Context) ([]*team.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*team.Team, 0, len(s.teams))
	for _, t := range s.teams {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeTeamStore) Rename(_ context.Context, id, name, zaloLink string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return apperr.NotFound("team %s not found", id)
	}
	if name != "" {
		t.Name = name
	}
	if zaloLink != "" {
		t.ZaloLink = zaloLink
	}
	return nil
}

func (s *fakeTeamStore) SetAdmin(_ context.Context, id string, pos user.Position, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return apperr.NotFound("team %s not found", id)
	}
	t.Admins.Set(pos, userID)
	return nil
}

func (s *fakeTeamStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.teams)), nil
}

type fakeStatsCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[string][]byte)}
}

func (c *fakeStatsCache) Get(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return apperr.NotFound("cache miss for %s", key)
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeStatsCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeStatsCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}
