package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/staywell/staywell-server/internal/domain"
	"github.com/staywell/staywell-server/internal/http/handlers"
	httpmw "github.com/staywell/staywell-server/internal/http/middleware"
	"github.com/staywell/staywell-server/internal/metrics"
	"github.com/staywell/staywell-server/internal/platform/auth"
)

const cookieName = "session"

// ---------- Mocks ----------

type mockStatsService struct {
	admin       *domain.AdminStats
	host        *domain.HostStats
	guest       *domain.GuestStats
	adminCalls  int
	hostEmails  []string
	guestEmails []string
}

func (m *mockStatsService) AdminStats(context.Context) (*domain.AdminStats, error) {
	m.adminCalls++
	return m.admin, nil
}

func (m *mockStatsService) HostStats(_ context.Context, hostEmail string) (*domain.HostStats, error) {
	m.hostEmails = append(m.hostEmails, hostEmail)
	return m.host, nil
}

func (m *mockStatsService) GuestStats(_ context.Context, guestEmail string) (*domain.GuestStats, error) {
	m.guestEmails = append(m.guestEmails, guestEmail)
	return m.guest, nil
}

type mockUserRepo struct {
	users     map[string]*domain.User
	findCalls int
}

func newMockUserRepo(users ...*domain.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.findCalls++
	return m.users[email], nil
}

func (m *mockUserRepo) Insert(context.Context, *domain.UserUpsertReq) (*domain.User, error) {
	return nil, nil
}
func (m *mockUserRepo) UpdateProfile(context.Context, string, *domain.UserUpdateReq) (*domain.User, error) {
	return nil, nil
}
func (m *mockUserRepo) UpdateStatus(context.Context, string, string) (*domain.User, error) {
	return nil, nil
}
func (m *mockUserRepo) List(context.Context) ([]domain.User, error) { return nil, nil }
func (m *mockUserRepo) Count(context.Context) (int64, error)        { return 0, nil }
func (m *mockUserRepo) RegisteredAt(context.Context, string) (*time.Time, error) {
	return nil, nil
}

// ---------- Helpers ----------

// newStatsRouter wires the three dashboard routes behind the same middleware
// layout the server uses.
func newStatsRouter(stats *mockStatsService, users *mockUserRepo) (*chi.Mux, *auth.Codec) {
	codec := auth.NewCodec("test-secret", time.Hour)
	chain := httpmw.NewChain(codec, users, cookieName, metrics.NopCollector{})
	h := handlers.NewStatsHandler(stats, metrics.NopCollector{})

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(chain.Authenticate)
		r.Get("/guest-stat", h.Guest)

		r.Group(func(r chi.Router) {
			r.Use(chain.RequireRole(domain.RoleHost))
			r.Get("/host-stat", h.Host)
		})
		r.Group(func(r chi.Router) {
			r.Use(chain.RequireRole(domain.RoleAdmin))
			r.Get("/admin-stat", h.Admin)
		})
	})
	return r, codec
}

func authedRequest(t *testing.T, codec *auth.Codec, method, target, email string) *http.Request {
	t.Helper()
	token, err := codec.Issue(email)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

// ---------- Tests ----------

func TestAdminStatUnauthenticated(t *testing.T) {
	stats := &mockStatsService{}
	users := newMockUserRepo()
	router, _ := newStatsRouter(stats, users)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin-stat", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if users.findCalls != 0 {
		t.Errorf("store queried %d times for an unauthenticated request", users.findCalls)
	}
	if stats.adminCalls != 0 {
		t.Error("aggregation ran for a rejected request")
	}
}

func TestHostStatForbiddenForGuest(t *testing.T) {
	stats := &mockStatsService{}
	users := newMockUserRepo(&domain.User{Email: "guest@example.com", Role: domain.RoleGuest})
	router, codec := newStatsRouter(stats, users)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, codec, http.MethodGet, "/host-stat", "guest@example.com"))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if len(stats.hostEmails) != 0 {
		t.Error("aggregation ran for a forbidden request")
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != "FORBIDDEN" {
		t.Errorf("error code = %q, want FORBIDDEN", body.Code)
	}
}

func TestHostStatNoBookings(t *testing.T) {
	since := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	stats := &mockStatsService{host: &domain.HostStats{
		TotalRooms: 2,
		ChartData:  []domain.ChartRow{{"Day", "Sales"}},
		HostSince:  &since,
	}}
	users := newMockUserRepo(&domain.User{Email: "host@example.com", Role: domain.RoleHost})
	router, codec := newStatsRouter(stats, users)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, codec, http.MethodGet, "/host-stat", "host@example.com"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(stats.hostEmails) != 1 || stats.hostEmails[0] != "host@example.com" {
		t.Errorf("aggregated for %v, want the session identity", stats.hostEmails)
	}

	var body struct {
		TotalRooms    int64   `json:"totalRooms"`
		TotalBookings int     `json:"totalBookings"`
		TotalPrice    float64 `json:"totalPrice"`
		ChartData     [][]any `json:"chartData"`
		HostSince     *string `json:"hostSince"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TotalRooms != 2 || body.TotalBookings != 0 || body.TotalPrice != 0 {
		t.Errorf("totals = %+v, want 2 rooms and zeroed sales", body)
	}
	if len(body.ChartData) != 1 || len(body.ChartData[0]) != 2 || body.ChartData[0][0] != "Day" {
		t.Errorf("chartData = %v, want the header row only", body.ChartData)
	}
	if body.HostSince == nil {
		t.Error("hostSince missing from the payload")
	}
}

func TestGuestStatScopedToSession(t *testing.T) {
	stats := &mockStatsService{guest: &domain.GuestStats{
		ChartData: []domain.ChartRow{{"Day", "Sales"}},
	}}
	users := newMockUserRepo(&domain.User{Email: "guest@example.com", Role: domain.RoleGuest})
	router, codec := newStatsRouter(stats, users)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, codec, http.MethodGet, "/guest-stat", "guest@example.com"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(stats.guestEmails) != 1 || stats.guestEmails[0] != "guest@example.com" {
		t.Errorf("aggregated for %v, want only the session identity", stats.guestEmails)
	}

	var body struct {
		GuestSince *string `json:"guestSince"`
	}
	raw := rec.Body.String()
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// omitempty: an identity with no registration date omits the field
	if body.GuestSince != nil {
		t.Errorf("guestSince = %v, want omitted", *body.GuestSince)
	}
}

func TestAdminStatAllowsAdminOnly(t *testing.T) {
	stats := &mockStatsService{admin: &domain.AdminStats{
		TotalUsers: 3,
		ChartData:  []domain.ChartRow{{"Day", "Sales"}},
	}}
	users := newMockUserRepo(
		&domain.User{Email: "admin@example.com", Role: domain.RoleAdmin},
		&domain.User{Email: "host@example.com", Role: domain.RoleHost},
	)
	router, codec := newStatsRouter(stats, users)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, codec, http.MethodGet, "/admin-stat", "host@example.com"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("host on /admin-stat: status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, codec, http.MethodGet, "/admin-stat", "admin@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin on /admin-stat: status = %d, want 200", rec.Code)
	}

	var body domain.AdminStats
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.TotalUsers != 3 {
		t.Errorf("totalUsers = %d, want 3", body.TotalUsers)
	}
}
