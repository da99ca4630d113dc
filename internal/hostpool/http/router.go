package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/service"
	"github.com/aussiebroadwan/hostpool/internal/hostpool/store"
	"github.com/aussiebroadwan/hostpool/pkg/httpx"
	"github.com/aussiebroadwan/hostpool/pkg/jwtx"
	"github.com/aussiebroadwan/hostpool/pkg/slogx"

	_ "github.com/aussiebroadwan/hostpool/api/hostpool" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	ScopeHostnamesRead  = "hostnames:read"
	ScopeHostnamesWrite = "hostnames:write"
	ScopeAdminRead      = "admin:read"
	ScopeAdminWrite     = "admin:write"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	LedgerService       *service.LedgerService
	RedemptionService   *service.RedemptionService
	ProvisioningService *service.ProvisioningService
	RemovalService      *service.RemovalService
	SweepService        *service.SweepService
	CardService         *service.CardService
	DomainService       *service.DomainService
	UserService         *service.UserService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCredits()
	r.registerHostnames()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			HostPool API
//	@version		0.1.0
//	@description	Hands out hostnames under pooled domains in exchange for Permission Credits.
//	@description
//	@description				Credits come from redeeming cards. Each live hostname holds exactly one credit and expires with it.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/hostpool
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// user guards a route for a token holder with any of the given scopes.
func (r *Router) user(h http.HandlerFunc, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scopes...),
		ensureUser(r.UserService),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) admin(h http.HandlerFunc, scopes ...string) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scopes...),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
}

func (r *Router) registerCredits() {
	h := &CreditsHandler{
		Ledger:     r.LedgerService,
		Redemption: r.RedemptionService,
	}

	r.Mux.Handle("GET /v1/credits",
		r.user(h.HandleList, httpx.LenientLimit, ScopeHostnamesRead, ScopeHostnamesWrite))

	// Card codes are guessable only by brute force; keep it slow.
	r.Mux.Handle("POST /v1/cards/redeem",
		r.user(h.HandleRedeem, httpx.StrictLimit, ScopeHostnamesWrite))
}

func (r *Router) registerHostnames() {
	h := &HostnamesHandler{
		Provisioning: r.ProvisioningService,
		Redemption:   r.RedemptionService,
		Domains:      r.DomainService,
	}

	r.Mux.Handle("GET /v1/domains",
		r.user(h.HandleListDomains, httpx.LenientLimit, ScopeHostnamesRead, ScopeHostnamesWrite))
	r.Mux.Handle("GET /v1/hostnames",
		r.user(h.HandleList, httpx.LenientLimit, ScopeHostnamesRead, ScopeHostnamesWrite))
	r.Mux.Handle("POST /v1/hostnames",
		r.user(h.HandleCreate, httpx.ModerateLimit, ScopeHostnamesWrite))
	r.Mux.Handle("POST /v1/hostnames/{id}/refresh",
		r.user(h.HandleRefresh, httpx.ModerateLimit, ScopeHostnamesRead, ScopeHostnamesWrite))
	r.Mux.Handle("POST /v1/hostnames/{id}/renew",
		r.user(h.HandleRenew, httpx.StrictLimit, ScopeHostnamesWrite))
	r.Mux.Handle("PATCH /v1/hostnames/{id}",
		r.user(h.HandleUpdate, httpx.ModerateLimit, ScopeHostnamesWrite))
	r.Mux.Handle("DELETE /v1/hostnames/{id}",
		r.user(h.HandleDelete, httpx.ModerateLimit, ScopeHostnamesWrite))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		Domains:      r.DomainService,
		Cards:        r.CardService,
		Provisioning: r.ProvisioningService,
		Users:        r.UserService,
		Ledger:       r.LedgerService,
		Removal:      r.RemovalService,
		Sweep:        r.SweepService,
	}

	// Reads accept either admin scope.
	read := []string{ScopeAdminRead, ScopeAdminWrite}

	r.Mux.Handle("GET /v1/admin/domains", r.admin(h.HandleListDomains, read...))
	r.Mux.Handle("POST /v1/admin/domains", r.admin(h.HandleCreateDomain, ScopeAdminWrite))
	r.Mux.Handle("PATCH /v1/admin/domains/{id}", r.admin(h.HandleUpdateDomain, ScopeAdminWrite))
	r.Mux.Handle("DELETE /v1/admin/domains/{id}", r.admin(h.HandleDeleteDomain, ScopeAdminWrite))

	r.Mux.Handle("GET /v1/admin/cards", r.admin(h.HandleListCards, read...))
	r.Mux.Handle("POST /v1/admin/cards", r.admin(h.HandleGenerateCards, ScopeAdminWrite))
	r.Mux.Handle("DELETE /v1/admin/cards/{id}", r.admin(h.HandleDeleteCard, ScopeAdminWrite))

	r.Mux.Handle("GET /v1/admin/hostnames", r.admin(h.HandleListHostnames, read...))
	r.Mux.Handle("DELETE /v1/admin/hostnames/{id}", r.admin(h.HandleDeleteHostname, ScopeAdminWrite))
	r.Mux.Handle("POST /v1/admin/hostnames/{id}/repair", r.admin(h.HandleRepairHostname, ScopeAdminWrite))

	r.Mux.Handle("GET /v1/admin/users", r.admin(h.HandleListUsers, read...))
	r.Mux.Handle("PATCH /v1/admin/users/{id}", r.admin(h.HandleUpdateUser, ScopeAdminWrite))
	r.Mux.Handle("GET /v1/admin/users/{id}/credits", r.admin(h.HandleListCredits, read...))
	r.Mux.Handle("POST /v1/admin/users/{id}/credits", r.admin(h.HandleGrantCredits, ScopeAdminWrite))
	r.Mux.Handle("DELETE /v1/admin/credits/{id}", r.admin(h.HandleRemoveCredit, ScopeAdminWrite))

	r.Mux.Handle("POST /v1/admin/sweep", r.admin(h.HandleSweep, ScopeAdminWrite))
}

func (r *Router) registerSystem() {
	// Monitoring may poll often.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
