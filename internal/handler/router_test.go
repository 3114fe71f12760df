package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mediconnect/mediconnect/internal/auth"
	"github.com/mediconnect/mediconnect/internal/cache"
	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/middleware"
	"github.com/mediconnect/mediconnect/internal/model"
	"github.com/mediconnect/mediconnect/internal/repository"
	"github.com/mediconnect/mediconnect/internal/service"
)

const testCookieName = "mediconnect_session"

type testServer struct {
	t        *testing.T
	handler  http.Handler
	accounts *service.AccountService
	metrics  *metrics.InMemoryRecorder
}

type serverOptions struct {
	policy      model.ReferencePolicy
	adminWrites bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, serverOptions{policy: model.ReferenceSoft})
}

func newTestServerWith(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	ctx := context.Background()

	repo, err := repository.New(ctx, "sqlite://:memory:", repository.DefaultOptions())
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewInMemory()
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1})
	accounts := service.NewAccountService(repo, hasher, rec)

	cfg := RouterConfig{
		Logger:             logger,
		Accounts:           accounts,
		Sessions:           service.NewSessionService(cache.NewMemorySessionStore(), time.Hour),
		Providers:          service.NewProviderService(repo, opts.policy, rec),
		Search:             service.NewSearchService(repo, rec),
		Health:             NewHealthHandler(repo, repo.Engine(), nil),
		Metrics:            rec,
		Cookie:             CookieConfig{Name: testCookieName},
		CORS:               middleware.DefaultCORSConfig(),
		IsDevelopment:      true,
		MaxRequestBodySize: 1 << 20,

		AdminWritesRequireAuth: opts.adminWrites,
	}

	return &testServer{t: t, handler: NewRouter(cfg), accounts: accounts, metrics: rec}
}

// do sends a request. body may be nil; token, if set, is sent as Bearer.
func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(s.t, rec, &resp)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func TestRouter_InfoAndFallbacks(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/", "", "")
	expectStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var info struct {
		Name      string   `json:"name"`
		Endpoints []string `json:"endpoints"`
	}
	decode(t, rec, &info)
	if info.Name != "MediConnect" || len(info.Endpoints) == 0 {
		t.Errorf("info = %+v", info)
	}

	expectStatus(t, s.do(http.MethodGet, "/nope", "", ""), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodPut, "/api/hospitals", "", ""), http.StatusMethodNotAllowed)
	expectStatus(t, s.do(http.MethodDelete, "/api/hospitals/abc", "", ""), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodGet, "/healthz", "", ""), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/readyz", "", ""), http.StatusOK)
}

func TestRouter_RegisterLoginLogout(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/register", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, "")
	expectStatus(t, rec, http.StatusCreated)
	var created struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	decode(t, rec, &created)
	if created.ID <= 0 || created.Message == "" {
		t.Errorf("register response = %+v", created)
	}

	expectStatus(t, s.do(http.MethodPost, "/register", `{"name":"Ada","email":"ada@example.com","password":"x"}`, ""), http.StatusConflict)
	expectStatus(t, s.do(http.MethodPost, "/register", `{"name":"","email":"b@example.com","password":"x"}`, ""), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/register", `{not json`, ""), http.StatusBadRequest)

	wrong := s.do(http.MethodPost, "/login", `{"email":"ada@example.com","password":"nope"}`, "")
	unknown := s.do(http.MethodPost, "/login", `{"email":"who@example.com","password":"pw"}`, "")
	expectStatus(t, wrong, http.StatusUnauthorized)
	expectStatus(t, unknown, http.StatusUnauthorized)
	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("auth failures differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}

	rec = s.do(http.MethodPost, "/login", `{"email":"ada@example.com","password":"pw"}`, "")
	expectStatus(t, rec, http.StatusOK)
	var login struct {
		Message string            `json:"message"`
		User    model.UserSummary `json:"user"`
		Token   string            `json:"token"`
	}
	decode(t, rec, &login)
	if login.User.ID != created.ID || login.User.Role != model.RoleUser || login.Token == "" {
		t.Errorf("login response = %+v", login)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("login response leaks password material")
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != login.Token || !cookie.HttpOnly {
		t.Fatalf("session cookie = %+v", cookie)
	}

	// Cookie-based identity.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	s.handler.ServeHTTP(me, req)
	expectStatus(t, me, http.StatusOK)

	// Bearer-based identity.
	rec = s.do(http.MethodGet, "/me", "", login.Token)
	expectStatus(t, rec, http.StatusOK)
	var profile struct {
		User model.UserSummary `json:"user"`
	}
	decode(t, rec, &profile)
	if profile.User.ID != created.ID || profile.User.Name != "Ada" || profile.User.Role != model.RoleUser {
		t.Errorf("/me user = %+v", profile.User)
	}
	expectStatus(t, s.do(http.MethodGet, "/me", "", ""), http.StatusUnauthorized)

	expectStatus(t, s.do(http.MethodPost, "/logout", "", login.Token), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/me", "", login.Token), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodPost, "/logout", "", ""), http.StatusOK)
}

func TestRouter_ProviderLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/hospitals", `{"name":"City Hospital","address":"1 Main St","latitude":"51.5"}`, "")
	expectStatus(t, rec, http.StatusCreated)
	var hospital struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &hospital)

	rec = s.do(http.MethodGet, "/api/hospitals", "", "")
	expectStatus(t, rec, http.StatusOK)
	var hospitals []model.Hospital
	decode(t, rec, &hospitals)
	if len(hospitals) != 1 || hospitals[0].Latitude == nil || *hospitals[0].Latitude != 51.5 || hospitals[0].Longitude != nil {
		t.Fatalf("hospitals = %+v", hospitals)
	}
	if !strings.Contains(rec.Body.String(), `"longitude":null`) {
		t.Errorf("absent longitude should serialize as null: %s", rec.Body.String())
	}

	// Form front ends post numbers as strings.
	body := `{"name":"Dr. Heartwell","specialization":"Cardiology","experience":"10","hospital_id":"` +
		jsonInt(hospital.ID) + `","contact":"555-0100","email":"h@x.com"}`
	rec = s.do(http.MethodPost, "/api/doctors", body, "")
	expectStatus(t, rec, http.StatusCreated)
	var doctor struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &doctor)

	expectStatus(t, s.do(http.MethodPost, "/api/doctors", `{"name":"X","specialization":"Y","hospital_id":1,"contact":"c","email":"e"}`, ""), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/api/doctors", `{"name":"X","specialization":"Y","experience":"ten","hospital_id":1,"contact":"c","email":"e"}`, ""), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", `{"name":"No address"}`, ""), http.StatusBadRequest)

	rec = s.do(http.MethodGet, "/api/search?q=CARDIO", "", "")
	expectStatus(t, rec, http.StatusOK)
	var matches []model.ProviderMatch
	decode(t, rec, &matches)
	if len(matches) != 1 || matches[0].DoctorName != "Dr. Heartwell" || matches[0].HospitalName != "City Hospital" {
		t.Fatalf("search = %+v", matches)
	}

	rec = s.do(http.MethodGet, "/api/search?q=%20%20", "", "")
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("blank search body = %s, want []", rec.Body.String())
	}

	expectStatus(t, s.do(http.MethodDelete, "/api/hospitals/"+jsonInt(hospital.ID), "", ""), http.StatusOK)
	expectStatus(t, s.do(http.MethodDelete, "/api/hospitals/"+jsonInt(hospital.ID), "", ""), http.StatusOK)

	rec = s.do(http.MethodGet, "/api/doctors", "", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"hospital_name":null`) {
		t.Errorf("dangling doctor should list with null hospital_name: %s", rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/api/search?q=cardio", "", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("dangling doctor still searchable: %s", rec.Body.String())
	}

	expectStatus(t, s.do(http.MethodDelete, "/api/doctors/"+jsonInt(doctor.ID), "", ""), http.StatusOK)
	expectStatus(t, s.do(http.MethodDelete, "/api/doctors/999999", "", ""), http.StatusOK)

	snap := s.metrics.Snapshot()
	if snap.HospitalsCreated != 1 || snap.DoctorsCreated != 1 || snap.Searches != 2 {
		t.Errorf("metrics = %+v", snap)
	}

	rec = s.do(http.MethodGet, "/metrics", "", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "mediconnect_hospitals_created_total 1") {
		t.Errorf("metrics body = %s", rec.Body.String())
	}
}

func TestRouter_RejectPolicy(t *testing.T) {
	t.Parallel()
	s := newTestServerWith(t, serverOptions{policy: model.ReferenceReject})

	expectStatus(t, s.do(http.MethodPost, "/api/doctors",
		`{"name":"X","specialization":"Y","experience":1,"hospital_id":42,"contact":"c","email":"e"}`, ""), http.StatusBadRequest)

	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", `{"name":"H","address":"A"}`, ""), http.StatusCreated)
	expectStatus(t, s.do(http.MethodPost, "/api/doctors",
		`{"name":"X","specialization":"Y","experience":1,"hospital_id":1,"contact":"c","email":"e"}`, ""), http.StatusCreated)
	expectStatus(t, s.do(http.MethodDelete, "/api/hospitals/1", "", ""), http.StatusConflict)
}

func TestRouter_AdminWriteGuard(t *testing.T) {
	t.Parallel()
	s := newTestServerWith(t, serverOptions{policy: model.ReferenceSoft, adminWrites: true})
	ctx := context.Background()

	if _, err := s.accounts.Register(ctx, service.RegisterInput{Name: "U", Email: "u@example.com", Password: "pw"}); err != nil {
		t.Fatalf("register user: %v", err)
	}
	if _, err := s.accounts.Register(ctx, service.RegisterInput{Name: "A", Email: "a@example.com", Password: "pw", Role: model.RoleAdmin}); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	userToken := s.login("u@example.com", "pw")
	adminToken := s.login("a@example.com", "pw")

	body := `{"name":"H","address":"A"}`
	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", body, ""), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", body, userToken), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", body, adminToken), http.StatusCreated)

	// Reads stay public.
	expectStatus(t, s.do(http.MethodGet, "/api/hospitals", "", ""), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/api/search?q=h", "", ""), http.StatusOK)
	expectStatus(t, s.do(http.MethodDelete, "/api/hospitals/1", "", userToken), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodDelete, "/api/hospitals/1", "", adminToken), http.StatusOK)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	big := `{"name":"` + strings.Repeat("a", 2<<20) + `","address":"x"}`
	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", big, ""), http.StatusRequestEntityTooLarge)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestRouter_SearchNonASCII(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	expectStatus(t, s.do(http.MethodPost, "/api/hospitals", `{"name":"Clinique Étoile","address":"4 Rue Haute"}`, ""), http.StatusCreated)
	expectStatus(t, s.do(http.MethodPost, "/api/doctors",
		`{"name":"Dr. Özdemir","specialization":"Kardiyoloji","experience":3,"hospital_id":1,"contact":"c","email":"e"}`, ""), http.StatusCreated)

	for _, q := range []string{"%C3%96zdemir", "%C3%B6zdemir", "%C3%A9toile"} {
		rec := s.do(http.MethodGet, "/api/search?q="+q, "", "")
		expectStatus(t, rec, http.StatusOK)
		var matches []model.ProviderMatch
		decode(t, rec, &matches)
		if len(matches) != 1 || matches[0].DoctorName != "Dr. Özdemir" {
			t.Errorf("search %s = %+v", q, matches)
		}
	}
}
