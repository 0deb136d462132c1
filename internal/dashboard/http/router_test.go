package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dashhttp "github.com/aussiebroadwan/batterydash/internal/dashboard/http"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/domain"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/service"
	"github.com/aussiebroadwan/batterydash/internal/dashboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/batterydash/pkg/cryptox"
	"github.com/aussiebroadwan/batterydash/pkg/httpx"
	"github.com/aussiebroadwan/batterydash/pkg/iwellsdk"
	"github.com/aussiebroadwan/batterydash/pkg/jwtx"
	"github.com/aussiebroadwan/batterydash/pkg/slogx"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const testIssuer = "batterydash-test"

type upstream struct {
	calls  atomic.Int32
	status int
	body   string
	query  atomic.Value
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.calls.Add(1)
	u.query.Store(r.URL.RawQuery)
	if r.Header.Get(iwellsdk.APIKeyHeader) != "upstream-key" {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.WriteHeader(u.status)
	_, _ = w.Write([]byte(u.body))
}

type harness struct {
	handler  http.Handler
	upstream *upstream
	store    *sqlite.Store
}

func newHarness(t *testing.T, configure ...func(*dashhttp.Router)) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	up := &upstream{status: http.StatusOK, body: `{}`}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	signer, err := jwtx.NewSignerHS256(testKey)
	require.NoError(t, err)
	verifier := jwtx.NewVerifierHS256(testKey, jwtx.VerifyOptions{Issuer: testIssuer})

	r := dashhttp.NewRouter(verifier, "test", st, []string{"http://localhost:4200"}, slogx.Discard())
	r.AccountService = &service.AccountService{
		Store:  st,
		Hasher: cryptox.NewPasswordHasher(""),
		Tokens: &service.TokenService{Signer: signer, Issuer: testIssuer},
	}
	r.BatteryService = &service.BatteryService{API: iwellsdk.NewClient(srv.URL, "upstream-key")}
	r.AuthLimit = httpx.RateLimit{Requests: 1000, Window: time.Minute, Burst: 1000}
	for _, fn := range configure {
		fn(r)
	}
	r.ApplyRoutes()

	return &harness{handler: r, upstream: up, store: st}
}

func (h *harness) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func tokenFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dashhttp.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (h *harness) register(t *testing.T, email string) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/Account/register",
		`{"email":"`+email+`","userName":"Alice","password":"pw123456","role":"User"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return tokenFrom(t, rec)
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice@example.com")

	rec := h.do(t, http.MethodPost, "/api/Account/login", `{"email":"ALICE@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	claims, err := jwtx.NewVerifierHS256(testKey, jwtx.VerifyOptions{}).Verify(tokenFrom(t, rec))
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", claims.Subject)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, "User", claims.Role)
}

func TestRegisterAcceptsUserEmailAlias(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/Account/register",
		`{"userEmail":"spa@example.com","userName":"Spa","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/Account/login", `{"userEmail":"spa@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	h := newHarness(t)
	h.register(t, "bob@example.com")

	rec := h.do(t, http.MethodPost, "/api/Account/register",
		`{"email":"Bob@Example.com","userName":"Bobby","password":"other"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.JSONEq(t, `{"message":"Email already exists."}`, rec.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/api/Account/register", `{"email":"not-an-email","password":""}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp httpx.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation_failed", resp.Code)
	require.Contains(t, resp.Details, "email")
	require.Contains(t, resp.Details, "userName")
	require.Contains(t, resp.Details, "password")

	rec = h.do(t, http.MethodPost, "/api/Account/register", `not json`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginUnauthorized(t *testing.T) {
	h := newHarness(t)
	h.register(t, "carol@example.com")

	unknown := h.do(t, http.MethodPost, "/api/Account/login", `{"email":"nobody@example.com","password":"pw123456"}`, "")
	wrong := h.do(t, http.MethodPost, "/api/Account/login", `{"email":"carol@example.com","password":"nope"}`, "")

	for _, rec := range []*httptest.ResponseRecorder{unknown, wrong} {
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Body.String())
	}
}

func TestLoginStoreFailure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Close())

	rec := h.do(t, http.MethodPost, "/api/Account/login", `{"email":"dave@example.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"An unexpected error occurred."}`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBatteryRequiresToken(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/Battery/BAT-1/status", "/api/Battery/BAT-1/telemetry"} {
		rec := h.do(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)

		rec = h.do(t, http.MethodGet, path, "", "forged.token.value")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	require.Zero(t, h.upstream.calls.Load())
}

func TestBatteryStatus(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "erin@example.com")

	h.upstream.body = `{"soc":55,"state":"idle"}`
	rec := h.do(t, http.MethodGet, "/api/Battery/BAT-1/status", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"soc":55,"state":"idle"}`, rec.Body.String())
	require.EqualValues(t, 1, h.upstream.calls.Load())
}

func TestBatteryTelemetry(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "frank@example.com")

	h.upstream.body = `{"series":[
		{"name":"SolarPowerW","data":[[1,2]]},
		{"name":"BatteryPowerW","data":[[1700000000000,-5.5]]},
		{"name":"GridPowerW","data":[]}
	]}`

	rec := h.do(t, http.MethodGet, "/api/Battery/BAT-1/telemetry?offsetMinutes=60", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"series":[
		{"name":"BatteryPowerW","data":[[1700000000000,-5.5]]},
		{"name":"GridPowerW","data":[]}
	]}`, rec.Body.String())
	require.Equal(t, "OffsetMinutes=60", h.upstream.query.Load())

	rec = h.do(t, http.MethodGet, "/api/Battery/BAT-1/telemetry/", "", tok)
	require.Equal(t, http.StatusOK, rec.Code, "trailing slash route")
	require.Equal(t, "OffsetMinutes=0", h.upstream.query.Load())

	rec = h.do(t, http.MethodGet, "/api/Battery/BAT-1/telemetry?offsetMinutes=abc", "", tok)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.EqualValues(t, 2, h.upstream.calls.Load())
}

func TestBatteryUpstreamFailure(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "gina@example.com")
	h.upstream.status = http.StatusServiceUnavailable

	rec := h.do(t, http.MethodGet, "/api/Battery/BAT-1/status", "", tok)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Error fetching battery status."}`, rec.Body.String())
	require.EqualValues(t, 1, h.upstream.calls.Load())

	rec = h.do(t, http.MethodGet, "/api/Battery/BAT-1/telemetry", "", tok)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"message":"Error fetching telemetry."}`, rec.Body.String())
	require.EqualValues(t, 2, h.upstream.calls.Load())
}

func TestAuthRateLimit(t *testing.T) {
	h := newHarness(t, func(r *dashhttp.Router) {
		r.AuthLimit = httpx.RateLimit{Requests: 2, Window: time.Minute, Burst: 2}
	})

	body := `{"email":"nobody@example.com","password":"pw123456"}`
	require.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/api/Account/login", body, "").Code)
	require.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/api/Account/login", body, "").Code)

	rec := h.do(t, http.MethodPost, "/api/Account/login", body, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestAuthRateLimitIgnoresForwardedFor(t *testing.T) {
	h := newHarness(t, func(r *dashhttp.Router) {
		r.AuthLimit = httpx.RateLimit{Requests: 1, Window: time.Minute, Burst: 1}
	})

	login := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/Account/login",
			strings.NewReader(`{"email":"nobody@example.com","password":"pw123456"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusUnauthorized, login("203.0.113.1"))
	require.Equal(t, http.StatusTooManyRequests, login("203.0.113.2"))
}

func TestHealthAndCORS(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/livez", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))

	rec = h.do(t, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health dashhttp.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Checks.Database)

	req := httptest.NewRequest(http.MethodOptions, "/api/Account/login", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", "POST")
	pre := httptest.NewRecorder()
	h.handler.ServeHTTP(pre, req)
	require.Equal(t, http.StatusNoContent, pre.Code)
	require.Equal(t, "http://localhost:4200", pre.Header().Get("Access-Control-Allow-Origin"))
}

func TestExpiredTokenRejected(t *testing.T) {
	h := newHarness(t)

	signer, err := jwtx.NewSignerHS256(testKey)
	require.NoError(t, err)
	issued := &service.TokenService{
		Signer: signer,
		Issuer: testIssuer,
		Now:    func() time.Time { return time.Now().Add(-3 * time.Hour) },
	}
	tok, err := issued.Issue(context.Background(), userFixture())
	require.NoError(t, err)

	rec := h.do(t, http.MethodGet, "/api/Battery/BAT-1/status", "", tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func userFixture() domain.User {
	return domain.User{Email: "old@example.com", DisplayName: "Old", Role: domain.DefaultRole}
}
