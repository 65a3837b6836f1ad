package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"tinhnguyen/internal/pkg/ctxutil"
	"tinhnguyen/internal/pkg/jwt"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	Convey("Given a router with the request id middleware", t, func() {
		r := gin.New()
		r.Use(RequestID())
		r.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		Convey("a request without an id gets one generated", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			r.ServeHTTP(w, req)

			So(w.Header().Get(RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("an upstream id is propagated unchanged", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, "upstream-id-001")
			r.ServeHTTP(w, req)

			So(w.Header().Get(RequestIDHeader), ShouldEqual, "upstream-id-001")
		})
	})
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	Convey("Given a router behind the auth middleware", t, func() {
		jwtUtil := jwt.NewJWT("test-secret", time.Hour)
		r := gin.New()
		r.Use(Auth(jwtUtil))
		r.GET("/", func(c *gin.Context) {
			p, _ := ctxutil.GetPrincipal(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role})
		})

		Convey("a valid token passes and the principal is injected", func() {
			token, err := jwtUtil.GenerateToken("u42", "u42@ctu.edu.vn", "member")
			So(err, ShouldBeNil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "u42")
			So(w.Body.String(), ShouldContainSubstring, "member")
		})

		Convey("a missing header is rejected", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("a garbage token is rejected", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("a token signed with another secret is rejected", func() {
			other := jwt.NewJWT("other-secret", time.Hour)
			token, err := other.GenerateToken("u42", "u42@ctu.edu.vn", "member")
			So(err, ShouldBeNil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusUnauthorized)
		})
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	Convey("Given a route gated on super_admin", t, func() {
		jwtUtil := jwt.NewJWT("test-secret", time.Hour)
		r := gin.New()
		r.Use(Auth(jwtUtil))
		r.Use(RequireRole("super_admin"))
		r.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		request := func(role string) *httptest.ResponseRecorder {
			token, _ := jwtUtil.GenerateToken("u1", "u1@ctu.edu.vn", role)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			r.ServeHTTP(w, req)
			return w
		}

		Convey("a super admin claim passes", func() {
			So(request("super_admin").Code, ShouldEqual, http.StatusOK)
		})

		Convey("a member claim is forbidden", func() {
			So(request("member").Code, ShouldEqual, http.StatusForbidden)
		})

		Convey("a team admin claim is forbidden", func() {
			So(request("team_admin").Code, ShouldEqual, http.StatusForbidden)
		})
	})
}
