package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/batterydash/api/dashboard" // Swagger docs
	"github.com/aussiebroadwan/batterydash/internal/dashboard/service"
	"github.com/aussiebroadwan/batterydash/pkg/httpx"
	"github.com/aussiebroadwan/batterydash/pkg/jwtx"
	"github.com/aussiebroadwan/batterydash/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger

	AccountService *service.AccountService
	BatteryService *service.BatteryService

	// AuthLimit applies per client IP to register and login.
	AuthLimit httpx.RateLimit
	// BatteryLimit applies per authenticated user to the battery routes.
	BatteryLimit httpx.RateLimit
	// ClientIP resolves the caller address used as the rate limit key.
	ClientIP httpx.KeyFunc
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	db Pinger,
	corsOrigins []string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		AuthLimit:    httpx.StrictLimit,
		BatteryLimit: httpx.LenientLimit,
		ClientIP:     httpx.ClientIP,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(corsOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccount()
	r.registerBattery()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Battery Dashboard API
//	@version					0.1.0
//	@description				Accounts and session tokens for the battery dashboard, plus a read-only
//	@description				proxy to the iWell battery monitoring API.
//	@description
//	@description				Session tokens are HS256 JWTs valid for two hours.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/batterydash
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{AccountService: r.AccountService}

	// Credential endpoints are brute force targets, limit per IP.
	limit := httpx.RateLimitByIP(r.AuthLimit, r.ClientIP)
	r.Mux.Handle("POST /api/Account/register", httpx.Chain(http.HandlerFunc(h.HandleRegister), limit))
	r.Mux.Handle("POST /api/Account/login", httpx.Chain(http.HandlerFunc(h.HandleLogin), limit))
}

func (r *Router) registerBattery() {
	h := &BatteryHandler{BatteryService: r.BatteryService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(r.BatteryLimit, r.ClientIP),
		)
	}

	status := secured(h.HandleStatus)
	telemetry := secured(h.HandleTelemetry)

	r.Mux.Handle("GET /api/Battery/{deviceId}/status", status)
	r.Mux.Handle("GET /api/Battery/{deviceId}/telemetry", telemetry)
	r.Mux.Handle("GET /api/Battery/{deviceId}/telemetry/{$}", telemetry) // dashboard SPA path
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit, r.ClientIP),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db),
			httpx.RateLimitByIP(httpx.LenientLimit, r.ClientIP),
		),
	)
}
