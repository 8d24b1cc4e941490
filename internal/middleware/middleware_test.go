package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/raisama21/ims/internal/model"
	"github.com/raisama21/ims/internal/store"
	"github.com/raisama21/ims/pkg/config"
	"github.com/raisama21/ims/pkg/jwtutil"
	"github.com/raisama21/ims/pkg/logger"
	"github.com/raisama21/ims/prometheus"
)

func newJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(config.CookieConfig{
		Name:   "__session",
		Secret: "middleware-test-secret",
		MaxAge: 3600,
	})
}

// members is an in-memory user directory keyed by user id
type members map[uuid.UUID]*model.User

func (m members) Get(_ context.Context, groupID, id uuid.UUID) (*model.User, error) {
	u, ok := m[id]
	if !ok || u.GroupID != groupID {
		return nil, fmt.Errorf("get user: %w", store.ErrNotFound)
	}
	return u, nil
}

// add stores a user holding role and returns a session for them
func (m members) add(role model.Role) jwtutil.Session {
	u := &model.User{GroupID: uuid.New(), Role: role}
	u.ID = uuid.New()
	m[u.ID] = u
	return jwtutil.Session{UserID: u.ID, GroupID: u.GroupID, Role: string(role)}
}

func newServer(j *jwtutil.JWTUtil, m members, need Capability) *echo.Echo {
	e := echo.New()
	e.Use(RequestIDMiddleware)
	e.Use(MetricsMiddleware)

	ok := func(c echo.Context) error {
		tenant, _ := GetTenant(c)
		return c.String(http.StatusOK, tenant.GroupID.String())
	}
	e.GET("/open", ok, AuthMiddleware(j, m))
	e.POST("/gated", ok, AuthMiddleware(j, m), Require(need))
	return e
}

func withSession(t *testing.T, j *jwtutil.JWTUtil, req *http.Request, s jwtutil.Session) {
	t.Helper()
	cookie, err := j.NewCookie(s)
	if err != nil {
		t.Fatalf("NewCookie() error = %v", err)
	}
	req.AddCookie(cookie)
}

func TestAuthMiddleware(t *testing.T) {
	j := newJWT()
	m := members{}
	e := newServer(j, m, CapMutateCatalog)
	session := m.add(model.RoleSalesPerson)
	stranger := jwtutil.Session{UserID: uuid.New(), GroupID: session.GroupID, Role: "admin"}

	tests := []struct {
		name   string
		cookie func(*http.Request)
		want   int
	}{
		{"no cookie", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "__session", Value: "not-a-token"})
		}, http.StatusUnauthorized},
		{"cookie signed elsewhere", func(r *http.Request) {
			other := jwtutil.NewJWTUtil(config.CookieConfig{Name: "__session", Secret: "other", MaxAge: 3600})
			withSession(t, other, r, session)
		}, http.StatusUnauthorized},
		{"user no longer exists", func(r *http.Request) { withSession(t, j, r, stranger) }, http.StatusUnauthorized},
		{"valid cookie", func(r *http.Request) { withSession(t, j, r, session) }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/open", nil)
			tt.cookie(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusOK && rec.Body.String() != session.GroupID.String() {
				t.Errorf("handler saw group %q, want %s", rec.Body.String(), session.GroupID)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	j := newJWT()

	tests := []struct {
		need Capability
		role model.Role
		want int
	}{
		{CapMutateCatalog, model.RoleAdmin, http.StatusOK},
		{CapMutateCatalog, model.RoleProductManager, http.StatusOK},
		{CapMutateCatalog, model.RoleSalesPerson, http.StatusForbidden},
		{CapManageUsers, model.RoleAdmin, http.StatusOK},
		{CapManageUsers, model.RoleProductManager, http.StatusForbidden},
		{CapManageUsers, model.RoleSalesPerson, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.need)+"/"+string(tt.role), func(t *testing.T) {
			m := members{}
			e := newServer(j, m, tt.need)
			req := httptest.NewRequest(http.MethodPost, "/gated", nil)
			withSession(t, j, req, m.add(tt.role))
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireUsesCurrentRole(t *testing.T) {
	j := newJWT()
	m := members{}
	e := newServer(j, m, CapManageUsers)
	session := m.add(model.RoleAdmin)

	cookie, err := j.NewCookie(session)
	if err != nil {
		t.Fatalf("NewCookie() error = %v", err)
	}
	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/gated", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := post(); got != http.StatusOK {
		t.Fatalf("status as admin = %d, want 200", got)
	}
	m[session.UserID].Role = model.RoleProductManager
	if got := post(); got != http.StatusForbidden {
		t.Errorf("status after demotion = %d, want 403", got)
	}
}

func TestAllowsUnknownCapability(t *testing.T) {
	if Allows(model.RoleAdmin, "root") {
		t.Error("unknown capability granted")
	}
	if Allows("", CapMutateCatalog) {
		t.Error("empty role granted catalog writes")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware)

	var sawLogger bool
	e.GET("/", func(c echo.Context) error {
		sawLogger = logger.FromContext(c.Request().Context()) == logger.FromEcho(c)
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get(echo.HeaderXRequestID)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-ID = %q, want a uuid", id)
	}
	if !sawLogger {
		t.Error("request context logger differs from echo context logger")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "upstream-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want the upstream id kept", got)
	}
}

func TestMetricsMiddlewareRecordsFinalStatus(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware)
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	counter := prometheus.HttpRequestsTotal.WithLabelValues(http.MethodGet, "/boom", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("requests_total{status=418} = %v, want %v", got, before+1)
	}
}
