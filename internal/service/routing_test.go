package service

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
)

func TestRoute(t *testing.T) {
	Convey("Given user records in every role", t, func() {
		Convey("a nil record routes to the registration intake", func() {
			dest, err := Route(nil)
			So(err, ShouldBeNil)
			So(dest.Surface, ShouldEqual, SurfaceRegistrationIntake)
			So(dest.TeamID, ShouldBeEmpty)
		})

		Convey("a pending user routes to the registration intake", func() {
			dest, err := Route(&user.User{ID: "u1", Role: user.RolePending})
			So(err, ShouldBeNil)
			So(dest.Surface, ShouldEqual, SurfaceRegistrationIntake)
		})

		Convey("a member routes to the member home", func() {
			dest, err := Route(&user.User{ID: "u1", Role: user.RoleMember, TeamID: "doi-3"})
			So(err, ShouldBeNil)
			So(dest.Surface, ShouldEqual, SurfaceMemberHome)
			So(dest.TeamID, ShouldBeEmpty)
		})

		Convey("a team admin routes to their team's panel", func() {
			dest, err := Route(&user.User{ID: "u1", Role: user.RoleTeamAdmin, TeamID: "doi-7"})
			So(err, ShouldBeNil)
			So(dest.Surface, ShouldEqual, SurfaceTeamAdminPanel)
			So(dest.TeamID, ShouldEqual, "doi-7")
		})

		Convey("a super admin routes to the org panel", func() {
			dest, err := Route(&user.User{ID: "u1", Role: user.RoleSuperAdmin})
			So(err, ShouldBeNil)
			So(dest.Surface, ShouldEqual, SurfaceOrgAdminPanel)
		})

		Convey("an unrecognized role is an error, not a default surface", func() {
			_, err := Route(&user.User{ID: "u1", Role: user.Role("moderator")})
			So(err, ShouldNotBeNil)
			So(apperr.IsKind(err, apperr.KindValidation), ShouldBeTrue)
		})

		Convey("routing is deterministic for the same record", func() {
			u := &user.User{ID: "u1", Role: user.RoleTeamAdmin, TeamID: "doi-2"}
			first, err1 := Route(u)
			second, err2 := Route(u)
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(second, ShouldResemble, first)
		})
	})
}
