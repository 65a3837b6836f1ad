package user

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRole(t *testing.T) {
	Convey("Given raw role values", t, func() {
		Convey("every known role parses to itself", func() {
			for _, r := range []Role{RolePending, RoleMember, RoleTeamAdmin, RoleSuperAdmin} {
				parsed, err := ParseRole(r.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, r)
			}
		})

		Convey("unknown values are refused, not defaulted", func() {
			for _, raw := range []string{"", "admin", "Pending", "MEMBER", "guest"} {
				_, err := ParseRole(raw)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestParsePosition(t *testing.T) {
	Convey("Given raw position values", t, func() {
		Convey("every known position parses", func() {
			for _, p := range Positions() {
				parsed, err := ParsePosition(p.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, p)
			}
		})

		Convey("unknown positions are refused", func() {
			_, err := ParsePosition("treasurer")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCheckInvariants(t *testing.T) {
	Convey("Given user records in various shapes", t, func() {
		Convey("valid shapes pass", func() {
			valid := []*User{
				{ID: "u1", Role: RolePending},
				{ID: "u2", Role: RoleMember},
				{ID: "u3", Role: RoleMember, TeamID: "doi-1"},
				{ID: "u4", Role: RoleTeamAdmin, TeamID: "doi-1", TeamPosition: PositionCaptain},
				{ID: "u5", Role: RoleSuperAdmin},
			}
			for _, u := range valid {
				So(u.CheckInvariants(), ShouldBeNil)
			}
		})

		Convey("a pending user with a team is invalid", func() {
			u := &User{ID: "u1", Role: RolePending, TeamID: "doi-1"}
			So(u.CheckInvariants(), ShouldNotBeNil)
		})

		Convey("a position without team_admin role is invalid", func() {
			u := &User{ID: "u1", Role: RoleMember, TeamID: "doi-1", TeamPosition: PositionDeputy1}
			So(u.CheckInvariants(), ShouldNotBeNil)
		})

		Convey("a position without a team is invalid", func() {
			u := &User{ID: "u1", Role: RoleTeamAdmin, TeamPosition: PositionCaptain}
			So(u.CheckInvariants(), ShouldNotBeNil)
		})

		Convey("an unknown role is invalid", func() {
			u := &User{ID: "u1", Role: Role("moderator")}
			So(u.CheckInvariants(), ShouldNotBeNil)
		})
	})
}
