package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"tinhnguyen/internal/model/team"
	"tinhnguyen/internal/model/user"
	"tinhnguyen/internal/pkg/apperr"
	"tinhnguyen/internal/pkg/storage"
)

// fakeStorage records uploads in memory.
type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	s.objects[key] = raw
	return "/files/" + key, nil
}

func (s *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.objects[key]
	if !ok {
		return nil, apperr.NotFound("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (s *fakeStorage) GetPresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "/upload/" + key, nil
}

func (s *fakeStorage) GetPresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "/signed/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStorage) GetFileInfo(_ context.Context, key string) (*storage.FileInfo, error) {
	raw, ok := s.objects[key]
	if !ok {
		return nil, apperr.NotFound("object %s not found", key)
	}
	return &storage.FileInfo{Key: key, Size: int64(len(raw))}, nil
}

func (s *fakeStorage) GetStorageType() string { return "fake" }

type fakeRevoker struct {
	revoked []string
}

func (r *fakeRevoker) DeleteByUserID(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func TestLookup(t *testing.T) {
	Convey("Given a directory with members, admins and an applicant", t, func() {
		ctx := context.Background()
		users := newFakeUserStore(
			&user.User{
				ID: "m1", Email: "m1@ctu.edu.vn", Role: user.RoleMember, TeamID: "doi-1",
				Profile: &user.Profile{FullName: "Tran Thi B", StudentID: "B2105002", Faculty: "Kinh te", Phone: "0900000001"},
			},
			&user.User{
				ID: "cap", Email: "cap@ctu.edu.vn", Role: user.RoleTeamAdmin, TeamID: "doi-1",
				Profile: &user.Profile{FullName: "Tran Van C", StudentID: "B2105003"},
			},
			&user.User{
				ID: "applicant", Email: "x@ctu.edu.vn", Role: user.RolePending,
				Profile: &user.Profile{FullName: "Tran Van D", StudentID: "B2105004"},
			},
			&user.User{ID: "boss", Role: user.RoleSuperAdmin},
		)
		teams := newFakeTeamStore(&team.Team{ID: "doi-1", Name: "Doi 1"})
		svc := NewMemberService(users, teams, nil, newFakeStorage(), nil)

		Convey("an exact student id match returns the public view", func() {
			found, err := svc.Lookup(ctx, "B2105002", "", 10)
			So(err, ShouldBeNil)
			So(len(found), ShouldEqual, 1)
			So(found[0].FullName, ShouldEqual, "Tran Thi B")
			So(found[0].TeamName, ShouldEqual, "Doi 1")
		})

		Convey("a name prefix search matches case-insensitively", func() {
			found, err := svc.Lookup(ctx, "", "tran", 10)
			So(err, ShouldBeNil)
			So(len(found), ShouldEqual, 2)
		})

		Convey("pending applicants are never surfaced", func() {
			found, err := svc.Lookup(ctx, "B2105004", "", 10)
			So(err, ShouldBeNil)
			So(found, ShouldBeEmpty)
		})

		Convey("an empty query is rejected", func() {
			_, err := svc.Lookup(ctx, "", "", 10)
			So(apperr.IsKind(err, apperr.KindValidation), ShouldBeTrue)
		})
	})
}

func TestRetireUser(t *testing.T) {
	Convey("Given a member with sessions and a team", t, func() {
		ctx := context.Background()
		users := newFakeUserStore(
			&user.User{ID: "boss", Role: user.RoleSuperAdmin},
			&user.User{ID: "m1", Role: user.RoleMember, TeamID: "doi-1"},
		)
		teams := newFakeTeamStore(&team.Team{ID: "doi-1", Name: "Doi 1"})
		revoker := &fakeRevoker{}
		stats := newFakeStatsCache()
		roster := NewRosterService(users, teams, NopTxn{}, stats, true, time.Minute)
		svc := NewMemberService(users, teams, revoker, newFakeStorage(), roster)

		Convey("retiring soft-deletes the record and revokes sessions", func() {
			So(svc.RetireUser(ctx, "m1", "boss"), ShouldBeNil)

			_, err := users.FindByID(ctx, "m1")
			So(apperr.IsKind(err, apperr.KindNotFound), ShouldBeTrue)
			So(revoker.revoked, ShouldContain, "m1")
		})

		Convey("a super admin cannot retire their own account", func() {
			err := svc.RetireUser(ctx, "boss", "boss")
			So(apperr.IsKind(err, apperr.KindConflict), ShouldBeTrue)
		})

		Convey("only a super admin may retire accounts", func() {
			err := svc.RetireUser(ctx, "boss", "m1")
			So(apperr.IsKind(err, apperr.KindAuthorization), ShouldBeTrue)
		})
	})
}

func TestCardUpload(t *testing.T) {
	Convey("Given an approved member and a pending applicant", t, func() {
		ctx := context.Background()
		users := newFakeUserStore(
			&user.User{ID: "m1", Role: user.RoleMember, TeamID: "doi-1"},
			&user.User{ID: "applicant", Role: user.RolePending},
		)
		teams := newFakeTeamStore(&team.Team{ID: "doi-1", Name: "Doi 1"})
		st := newFakeStorage()
		svc := NewMemberService(users, teams, nil, st, nil)

		Convey("uploading a card stores the image and stamps the issue time", func() {
			url, err := svc.UploadCard(ctx, "m1", bytes.NewReader([]byte("png-bytes")), "image/png")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "/files/"+storage.CardKey("m1"))

			u, _ := users.FindByID(ctx, "m1")
			So(u.CardURL, ShouldEqual, url)
			So(u.CardIssuedAt, ShouldNotBeNil)
		})

		Convey("a pending applicant has no card to issue", func() {
			_, err := svc.UploadCard(ctx, "applicant", bytes.NewReader(nil), "image/png")
			So(apperr.IsKind(err, apperr.KindConflict), ShouldBeTrue)
		})

		Convey("an avatar upload records the returned url", func() {
			url, err := svc.UploadAvatar(ctx, "m1", bytes.NewReader([]byte("avatar")), "image/png")
			So(err, ShouldBeNil)

			u, _ := users.FindByID(ctx, "m1")
			So(u.AvatarURL, ShouldEqual, url)
		})

		Convey("a signed card link requires an issued card", func() {
			_, err := svc.CardDownloadURL(ctx, "m1", time.Minute)
			So(apperr.IsKind(err, apperr.KindNotFound), ShouldBeTrue)

			_, uploadErr := svc.UploadCard(ctx, "m1", bytes.NewReader([]byte("png")), "image/png")
			So(uploadErr, ShouldBeNil)

			url, err := svc.CardDownloadURL(ctx, "m1", time.Minute)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "/signed/"+storage.CardKey("m1"))
		})
	})
}
