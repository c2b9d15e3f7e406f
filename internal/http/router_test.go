package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"backoffice-service/internal/auth"
	"backoffice-service/internal/config"
	"backoffice-service/internal/db"
	"backoffice-service/internal/http/middleware"
	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/service"
	"backoffice-service/internal/upstream"
)

type testEnv struct {
	router  *gin.Engine
	users   *service.UserService
	drivers *repository.DispatchRepository
}

func newTestEnv(t *testing.T, upstreamCfg config.UpstreamConfig) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.Open(db.DriverSQLite, fmt.Sprintf("file:http_%s?mode=memory&cache=shared", name), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })

	log := zerolog.Nop()
	userRepo := repository.NewUserRepository(database)
	dispatchRepo := repository.NewDispatchRepository(database)
	client := upstream.New(upstreamCfg, log)

	authService := service.NewAuthService(userRepo, auth.NewParser("test-secret"), 0, log)
	services := Services{
		Auth:     authService,
		Users:    service.NewUserService(userRepo),
		Plans:    service.NewPlanService(repository.NewPlanRepository(database), client),
		Routes:   service.NewRouteService(repository.NewRouteRepository(database), client),
		Dispatch: service.NewDispatchService(dispatchRepo, client),
		Drivers:  service.NewDriverService(dispatchRepo, log),
	}

	router, err := NewRouter(NewHandler(services, false, log), middleware.Auth(authService), RouterConfig{
		Environment: "test",
		Origins:     []string{"http://localhost:3000"},
		Ping: func(ctx context.Context) error {
			return db.HealthCheck(ctx, database)
		},
	}, log)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &testEnv{router: router, users: services.Users, drivers: dispatchRepo}
}

type envelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    json.RawMessage      `json:"data"`
	Source  string               `json:"source"`
	Errors  []service.FieldError `json:"errors"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestRouteGroupScenario(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	group := map[string]interface{}{
		"id":   "g1",
		"name": "North",
		"routes": []map[string]interface{}{
			{"id": "r1", "name": "Morning", "stops": []map[string]interface{}{
				{"id": "s1", "sequence": 1, "address": map[string]interface{}{"id": "addr-1", "street": "Main 1"}},
			}},
		},
	}

	rec, body := env.do(t, http.MethodPost, "/api/route-groups", group)
	expectStatus(t, rec, http.StatusCreated)
	if !body.Success {
		t.Fatalf("expected success envelope, got %+v", body)
	}

	rec, body = env.do(t, http.MethodPost, "/api/route-groups", group)
	expectStatus(t, rec, http.StatusConflict)
	if body.Success {
		t.Fatal("conflict must carry success=false")
	}

	rec, body = env.do(t, http.MethodGet, "/api/route-groups/g1", nil)
	expectStatus(t, rec, http.StatusOK)
	if body.Source != string(service.SourceLocal) {
		t.Fatalf("expected local source, got %q", body.Source)
	}
	var got model.RouteGroup
	if err := json.Unmarshal(body.Data, &got); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if got.Name != "North" || len(got.Routes) != 1 || len(got.Routes[0].Stops) != 1 {
		t.Fatalf("unexpected group %+v", got)
	}

	rec, body = env.do(t, http.MethodPut, "/api/route-groups/g1", map[string]interface{}{"name": "  "})
	expectStatus(t, rec, http.StatusBadRequest)
	if len(body.Errors) != 1 || body.Errors[0].Path != "name" {
		t.Fatalf("expected name error, got %+v", body.Errors)
	}

	rec, _ = env.do(t, http.MethodPut, "/api/route-groups/missing", map[string]interface{}{"name": "  "})
	expectStatus(t, rec, http.StatusNotFound)

	rec, _ = env.do(t, http.MethodPut, "/api/route-groups/g1", map[string]interface{}{"name": "South"})
	expectStatus(t, rec, http.StatusOK)

	rec, _ = env.do(t, http.MethodPost, "/api/route-groups/g1/routes", map[string]interface{}{"id": "r2", "name": "Evening"})
	expectStatus(t, rec, http.StatusCreated)
	rec, body = env.do(t, http.MethodGet, "/api/route-groups/g1/routes/r2", nil)
	expectStatus(t, rec, http.StatusOK)

	rec, _ = env.do(t, http.MethodDelete, "/api/route-groups/g1", nil)
	expectStatus(t, rec, http.StatusOK)
	rec, _ = env.do(t, http.MethodGet, "/api/route-groups/g1", nil)
	expectStatus(t, rec, http.StatusNotFound)
	rec, _ = env.do(t, http.MethodDelete, "/api/route-groups/g1", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestCreatePlanReportsNestedFieldPaths(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	plan := map[string]interface{}{
		"id":             "p1",
		"operationType":  "DELIVERY",
		"date":           "2024-03-10",
		"assignedUserId": "user-1",
		"orders": []map[string]interface{}{{
			"id": "o1", "customerId": "c1", "addressId": "a1",
			"lineItems": []map[string]interface{}{
				{"id": "li1", "productId": "p1", "quantity": 1, "unitPrice": 1},
				{"id": "li2", "productId": "p1", "quantity": 0, "unitPrice": 1},
			},
		}},
	}

	rec, body := env.do(t, http.MethodPost, "/api/plans", plan)
	expectStatus(t, rec, http.StatusBadRequest)
	if len(body.Errors) != 1 || body.Errors[0].Path != "orders[0].lineItems[1].quantity" {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/plans/p1", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec, body = env.do(t, http.MethodPost, "/api/plans", `{"id":`)
	expectStatus(t, rec, http.StatusBadRequest)
	if body.Success || body.Message != "validation failed" {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestPlanByDateRequiresQuery(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	rec, body := env.do(t, http.MethodGet, "/api/plans?date=2024-03-10", nil)
	expectStatus(t, rec, http.StatusBadRequest)
	if len(body.Errors) != 1 || body.Errors[0].Path != "assignedUserId" {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}
}

func TestPlanFallsBackToUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plans/remote":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"remote","operationType":"DELIVERY","date":"2024-03-10T00:00:00Z","assignedUserId":"u1"}`))
		case "/plans/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	env := newTestEnv(t, config.UpstreamConfig{PlanURL: srv.URL + "/plans"})

	rec, body := env.do(t, http.MethodGet, "/api/plans/remote", nil)
	expectStatus(t, rec, http.StatusOK)
	if body.Source != string(service.SourceExternal) {
		t.Fatalf("expected external source, got %q", body.Source)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/plans/absent", nil)
	expectStatus(t, rec, http.StatusNotFound)

	rec, body = env.do(t, http.MethodGet, "/api/plans/broken", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	if strings.Contains(body.Message, "502") || strings.Contains(body.Message, srv.URL) {
		t.Fatalf("upstream details leaked: %q", body.Message)
	}
}

func TestDispatchRouteIDsMustBePositive(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})

	for _, path := range []string{"/api/routes/abc", "/api/routes/0", "/api/routes/-3"} {
		rec, _ := env.do(t, http.MethodGet, path, nil)
		expectStatus(t, rec, http.StatusBadRequest)
	}

	rec, body := env.do(t, http.MethodPost, "/api/routes", map[string]interface{}{"id": 0, "driverId": 1, "date": "2024-03-10"})
	expectStatus(t, rec, http.StatusBadRequest)
	if len(body.Errors) != 1 || body.Errors[0].Path != "id" {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/drivers", nil)
	expectStatus(t, rec, http.StatusOK)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	ctx := context.Background()
	if _, err := env.users.Create(ctx, service.CreateUserInput{
		Name: "Admin", Email: "admin@example.com", Password: "admin-pass", Role: model.UserRoleAdmin,
	}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := env.users.Create(ctx, service.CreateUserInput{
		Name: "Ana", Email: "ana@example.com", Password: "user-pass1",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec, body := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong-pass"})
	expectStatus(t, rec, http.StatusUnauthorized)
	if body.Success {
		t.Fatal("failed login must carry success=false")
	}

	rec, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "not-an-email"})
	expectStatus(t, rec, http.StatusBadRequest)

	rec, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "admin-pass"})
	expectStatus(t, rec, http.StatusOK)
	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode || cookie.Path != "/" || cookie.MaxAge != int(auth.TokenTTL.Seconds()) {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/auth/verify", nil, cookie)
	expectStatus(t, rec, http.StatusOK)

	tampered := &http.Cookie{Name: auth.CookieName, Value: cookie.Value + "x"}
	rec, body = env.do(t, http.MethodGet, "/api/auth/verify", nil, tampered)
	expectStatus(t, rec, http.StatusUnauthorized)
	if body.Message != service.ErrUnauthenticated.Error() {
		t.Fatalf("expected generic message, got %q", body.Message)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/users", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	rec, body = env.do(t, http.MethodGet, "/api/users", nil, cookie)
	expectStatus(t, rec, http.StatusOK)
	var users []model.User
	if err := json.Unmarshal(body.Data, &users); err != nil || len(users) != 2 {
		t.Fatalf("expected two users, got %d (%v)", len(users), err)
	}
	rec, _ = env.do(t, http.MethodGet, "/api/user/not-a-uuid", nil, cookie)
	expectStatus(t, rec, http.StatusBadRequest)

	rec, _ = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": "ana@example.com", "password": "user-pass1"})
	expectStatus(t, rec, http.StatusOK)
	rec, _ = env.do(t, http.MethodGet, "/api/users", nil, sessionCookie(t, rec))
	expectStatus(t, rec, http.StatusForbidden)

	rec, _ = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	expectStatus(t, rec, http.StatusOK)
	if c := sessionCookie(t, rec); c.MaxAge >= 0 {
		t.Fatalf("logout must expire the cookie, got MaxAge %d", c.MaxAge)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	rec, _ := env.do(t, http.MethodGet, "/healthz", nil)
	expectStatus(t, rec, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	out := httptest.NewRecorder()
	env.router.ServeHTTP(out, req)
	expectStatus(t, out, http.StatusOK)
	if !strings.Contains(out.Body.String(), "backoffice_http_requests_total") {
		t.Fatal("expected request counter in metrics output")
	}
}

func TestUnknownRoutesAndPanicsUseEnvelope(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	env.router.GET("/api/explode", func(*gin.Context) { panic("boom") })

	rec, body := env.do(t, http.MethodGet, "/api/nope", nil)
	expectStatus(t, rec, http.StatusNotFound)
	if body.Success || body.Message != "route not found" {
		t.Fatalf("unexpected envelope %+v (%s)", body, rec.Header().Get("Content-Type"))
	}

	rec, body = env.do(t, http.MethodPatch, "/api/drivers", nil)
	expectStatus(t, rec, http.StatusMethodNotAllowed)
	if body.Success || body.Message != "method not allowed" {
		t.Fatalf("unexpected envelope %+v", body)
	}

	rec, body = env.do(t, http.MethodGet, "/api/explode", nil)
	expectStatus(t, rec, http.StatusInternalServerError)
	if body.Success || body.Message != "internal error" {
		t.Fatalf("unexpected envelope %+v (%s)", body, rec.Body.String())
	}
}

func TestUnknownReferenceIsBadRequest(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	group := map[string]interface{}{
		"id":   "g1",
		"name": "North",
		"routes": []map[string]interface{}{
			{"id": "r1", "name": "Morning", "truckId": "typo-truck", "stops": []map[string]interface{}{
				{"id": "s1", "sequence": 1, "addressId": "no-such-address"},
			}},
		},
	}

	rec, body := env.do(t, http.MethodPost, "/api/route-groups", group)
	expectStatus(t, rec, http.StatusBadRequest)
	paths := map[string]bool{}
	for _, f := range body.Errors {
		paths[f.Path] = true
	}
	if !paths["routes[0].truckId"] || !paths["routes[0].stops[0].addressId"] {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/route-groups/g1", nil)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestDispatchRouteDateIsCalendarDay(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})

	route := map[string]interface{}{"id": 5, "driverId": 9, "date": "2024-03-10T18:45:00Z"}
	rec, body := env.do(t, http.MethodPost, "/api/routes", route)
	expectStatus(t, rec, http.StatusBadRequest)
	if len(body.Errors) != 1 || body.Errors[0].Path != "driverId" {
		t.Fatalf("expected unknown driver error, got %+v", body.Errors)
	}

	if err := env.drivers.CreateDriver(context.Background(), &model.Driver{ID: 9, Name: "Luis"}); err != nil {
		t.Fatalf("driver: %v", err)
	}
	rec, _ = env.do(t, http.MethodPost, "/api/routes", route)
	expectStatus(t, rec, http.StatusCreated)

	rec, body = env.do(t, http.MethodGet, "/api/routes/5", nil)
	expectStatus(t, rec, http.StatusOK)
	var got map[string]interface{}
	if err := json.Unmarshal(body.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["date"] != "2024-03-10" {
		t.Fatalf("expected YYYY-MM-DD date, got %v", got["date"])
	}
}

func TestPlanIDAllIsReserved(t *testing.T) {
	env := newTestEnv(t, config.UpstreamConfig{})
	plan := map[string]interface{}{
		"id":             "all",
		"operationType":  "DELIVERY",
		"date":           "2024-03-10",
		"assignedUserId": "user-1",
	}
	rec, body := env.do(t, http.MethodPost, "/api/plans", plan)
	expectStatus(t, rec, http.StatusBadRequest)
	if len(body.Errors) != 1 || body.Errors[0].Path != "id" {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}
}
