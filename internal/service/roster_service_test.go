package service

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/cache"
)

func rosterFixture() (*fakeUserStore, *fakeTeamStore, *fakeStatsCache) {
	users := newFakeUserStore(
		&user.User{ID: "boss", Role: user.RoleSuperAdmin},
		&user.User{ID: "u42", Role: user.RoleMember, TeamID: "doi-1"},
		&user.User{ID: "old-captain", Role: user.RoleTeamAdmin, TeamID: "doi-1", TeamPosition: user.PositionCaptain},
		&user.User{ID: "other-captain", Role: user.RoleTeamAdmin, TeamID: "doi-2", TeamPosition: user.PositionCaptain},
		&user.User{ID: "applicant", Role: user.RolePending},
	)
	teams := newFakeTeamStore(
		&team.Team{ID: "doi-1", Name: "Doi 1", Admins: team.Admins{Captain: "old-captain"}},
		&team.Team{ID: "doi-2", Name: "Doi 2", Admins: team.Admins{Captain: "other-captain"}},
	)
	return users, teams, newFakeStatsCache()
}

func TestAssignAdmin(t *testing.T) {
	Convey("Given a roster with an occupied captain seat", t, func() {
		ctx := context.Background()
		users, teams, stats := rosterFixture()
		svc := NewRosterService(users, teams, NopTxn{}, stats, true, time.Minute)

		Convey("assigning a member promotes them and records the seat", func() {
			err := svc.AssignAdmin(ctx, "doi-1", user.PositionCaptain, "u42", "boss")
			So(err, ShouldBeNil)

			t1, _ := teams.FindByID(ctx, "doi-1")
			So(t1.Admins.Captain, ShouldEqual, "u42")

			u, _ := users.FindByID(ctx, "u42")
			So(u.Role, ShouldEqual, user.RoleTeamAdmin)
			So(u.TeamID, ShouldEqual, "doi-1")
			So(u.TeamPosition, ShouldEqual, user.PositionCaptain)
		})

		Convey("the displaced occupant is demoted when configured", func() {
			So(svc.AssignAdmin(ctx, "doi-1", user.PositionCaptain, "u42", "boss"), ShouldBeNil)

			prev, _ := users.FindByID(ctx, "old-captain")
			So(prev.Role, ShouldEqual, user.RoleMember)
			So(prev.TeamPosition, ShouldBeEmpty)
		})

		Convey("the displaced occupant keeps team_admin when demotion is off", func() {
			keep := NewRosterService(users, teams, NopTxn{}, stats, false, time.Minute)
			So(keep.AssignAdmin(ctx, "doi-1", user.PositionCaptain, "u42", "boss"), ShouldBeNil)

			prev, _ := users.FindByID(ctx, "old-captain")
			So(prev.Role, ShouldEqual, user.RoleTeamAdmin)
		})

		Convey("reassigning the current occupant is a no-op", func() {
			err := svc.AssignAdmin(ctx, "doi-1", user.PositionCaptain, "old-captain", "boss")
			So(err, ShouldBeNil)

			u, _ := users.FindByID(ctx, "old-captain")
			So(u.Role, ShouldEqual, user.RoleTeamAdmin)
		})

		Convey("a pending applicant cannot hold a seat", func() {
			err := svc.AssignAdmin(ctx, "doi-1", user.PositionDeputy1, "applicant", "boss")
			So(apperr.IsKind(err, apperr.KindConflict), ShouldBeTrue)
		})

		Convey("an unknown position is a validation error", func() {
			err := svc.AssignAdmin(ctx, "doi-1", user.Position("treasurer"), "u42", "boss")
			So(apperr.IsKind(err, apperr.KindValidation), ShouldBeTrue)
		})

		Convey("a team admin cannot mint admins, even in their own team", func() {
			err := svc.AssignAdmin(ctx, "doi-1", user.PositionDeputy1, "u42", "old-captain")
			So(apperr.IsKind(err, apperr.KindAuthorization), ShouldBeTrue)

			t1, _ := teams.FindByID(ctx, "doi-1")
			So(t1.Admins.Deputy1, ShouldBeEmpty)
		})

		Convey("assigning into a missing team is not found", func() {
			err := svc.AssignAdmin(ctx, "doi-99", user.PositionCaptain, "u42", "boss")
			So(apperr.IsKind(err, apperr.KindNotFound), ShouldBeTrue)
		})

		Convey("the cached stats of both affected teams are dropped", func() {
			So(stats.Set(ctx, cache.TeamStatsKey("doi-1"), &team.Stats{MemberCount: 9}, time.Minute), ShouldBeNil)
			So(svc.AssignAdmin(ctx, "doi-1", user.PositionCaptain, "u42", "boss"), ShouldBeNil)
			So(stats.deleted, ShouldContain, cache.TeamStatsKey("doi-1"))
		})
	})
}

func TestAddMember(t *testing.T) {
	Convey("Given a roster", t, func() {
		ctx := context.Background()
		users, teams, stats := rosterFixture()
		svc := NewRosterService(users, teams, NopTxn{}, stats, true, time.Minute)

		Convey("a super admin can place a member anywhere", func() {
			So(svc.AddMember(ctx, "doi-2", "u42", "boss"), ShouldBeNil)

			u, _ := users.FindByID(ctx, "u42")
			So(u.TeamID, ShouldEqual, "doi-2")
		})

		Convey("a team admin can add to their own team only", func() {
			So(svc.AddMember(ctx, "doi-1", "u42", "old-captain"), ShouldBeNil)

			err := svc.AddMember(ctx, "doi-2", "u42", "old-captain")
			So(apperr.IsKind(err, apperr.KindAuthorization), ShouldBeTrue)

			u, _ := users.FindByID(ctx, "u42")
			So(u.TeamID, ShouldEqual, "doi-1")
		})

		Convey("a pending applicant cannot join a team", func() {
			err := svc.AddMember(ctx, "doi-1", "applicant", "boss")
			So(apperr.IsKind(err, apperr.KindConflict), ShouldBeTrue)
		})
	})
}

func TestTeamStats(t *testing.T) {
	Convey("Given a team with members and issued cards", t, func() {
		ctx := context.Background()
		now := time.Now()
		users := newFakeUserStore(
			&user.User{ID: "m1", Role: user.RoleMember, TeamID: "doi-1", CardURL: "cards/m1.png", CardIssuedAt: &now},
			&user.User{ID: "m2", Role: user.RoleMember, TeamID: "doi-1"},
			&user.User{ID: "cap", Role: user.RoleTeamAdmin, TeamID: "doi-1"},
			&user.User{ID: "stranger", Role: user.RoleMember, TeamID: "doi-2"},
		)
		teams := newFakeTeamStore(&team.Team{ID: "doi-1", Name: "Doi 1"})
		stats := newFakeStatsCache()
		svc := NewRosterService(users, teams, NopTxn{}, stats, true, time.Minute)

		Convey("a miss recomputes the counts and fills the cache", func() {
			st, err := svc.Stats(ctx, "doi-1")
			So(err, ShouldBeNil)
			So(st.MemberCount, ShouldEqual, 3)
			So(st.CardCount, ShouldEqual, 1)

			var cached team.Stats
			So(stats.Get(ctx, cache.TeamStatsKey("doi-1"), &cached), ShouldBeNil)
			So(cached.MemberCount, ShouldEqual, 3)
		})

		Convey("a hit serves the cached value without recounting", func() {
			So(stats.Set(ctx, cache.TeamStatsKey("doi-1"), &team.Stats{MemberCount: 99, CardCount: 7}, time.Minute), ShouldBeNil)

			st, err := svc.Stats(ctx, "doi-1")
			So(err, ShouldBeNil)
			So(st.MemberCount, ShouldEqual, 99)
			So(st.CardCount, ShouldEqual, 7)
		})

		Convey("without a cache the counts are computed every time", func() {
			plain := NewRosterService(users, teams, NopTxn{}, nil, true, time.Minute)
			st, err := plain.Stats(ctx, "doi-1")
			So(err, ShouldBeNil)
			So(st.MemberCount, ShouldEqual, 3)
		})
	})
}

func TestCreateAndRenameTeam(t *testing.T) {
	Convey("Given the roster service", t, func() {
		ctx := context.Background()
		users, teams, stats := rosterFixture()
		svc := NewRosterService(users, teams, NopTxn{}, stats, true, time.Minute)

		Convey("a super admin can create a team", func() {
			created, err := svc.CreateTeam(ctx, "doi-3", "Doi 3", "https://zalo.me/g/doi3", "boss")
			So(err, ShouldBeNil)
			So(created.ID, ShouldEqual, "doi-3")

			got, err := teams.FindByID(ctx, "doi-3")
			So(err, ShouldBeNil)
			So(got.ZaloLink, ShouldEqual, "https://zalo.me/g/doi3")
		})

		Convey("creating a duplicate team id is a conflict", func() {
			_, err := svc.CreateTeam(ctx, "doi-1", "Doi 1 bis", "", "boss")
			So(apperr.IsKind(err, apperr.KindConflict), ShouldBeTrue)
		})

		Convey("a team admin can rename their own team", func() {
			So(svc.Rename(ctx, "doi-1", "Doi Mot", "", "old-captain"), ShouldBeNil)

			got, _ := teams.FindByID(ctx, "doi-1")
			So(got.Name, ShouldEqual, "Doi Mot")
		})

		Convey("a team admin cannot rename another team", func() {
			err := svc.Rename(ctx, "doi-2", "Hijacked", "", "old-captain")
			So(apperr.IsKind(err, apperr.KindAuthorization), ShouldBeTrue)
		})
	})
}
