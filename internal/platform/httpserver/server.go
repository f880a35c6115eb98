package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainsvc "locker/contexts/enterprise-management/domain-service"
	membership "locker/contexts/enterprise-management/membership-service"
	policy "locker/contexts/enterprise-management/policy-service"
	billing "locker/contexts/finance-core/seat-billing-service"
	cipher "locker/contexts/vault-access/cipher-service"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	membership membership.Module
	policy     policy.Module
	domains    domainsvc.Module
	ciphers    cipher.Module
	billing    billing.Module
}

func New(
	membershipModule membership.Module,
	policyModule policy.Module,
	domainModule domainsvc.Module,
	cipherModule cipher.Module,
	billingModule billing.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		membership: membershipModule,
		policy:     policyModule,
		domains:    domainModule,
		ciphers:    cipherModule,
		billing:    billingModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /v1/enterprises", s.handleCreateEnterprise)
	s.mux.HandleFunc("POST /v1/enterprises/{enterprise_id}/members", s.handleCreateMember)
	s.mux.HandleFunc("GET /v1/enterprises/{enterprise_id}/members", s.handleListMembers)
	s.mux.HandleFunc("PATCH /v1/enterprises/{enterprise_id}/members/{member_id}", s.handleUpdateMember)
	s.mux.HandleFunc("PUT /v1/enterprises/{enterprise_id}/members/{member_id}/activated", s.handleSetActivated)
	s.mux.HandleFunc("POST /v1/enterprises/{enterprise_id}/members/{member_id}/invitation", s.handleResolveInvitation)
	s.mux.HandleFunc("DELETE /v1/enterprises/{enterprise_id}/members/{member_id}", s.handleDeleteMember)
	s.mux.HandleFunc("POST /v1/invitations/claim", s.handleClaimInvitation)

	s.mux.HandleFunc("GET /v1/enterprises/{enterprise_id}/policies", s.handleListPolicies)
	s.mux.HandleFunc("GET /v1/enterprises/{enterprise_id}/policies/{kind}", s.handleGetPolicy)
	s.mux.HandleFunc("PUT /v1/enterprises/{enterprise_id}/policies/{kind}", s.handleUpdatePolicy)
	s.mux.HandleFunc("GET /v1/users/{user_id}/lockout-policy", s.handleEffectiveLockout)

	s.mux.HandleFunc("POST /v1/enterprises/{enterprise_id}/domains", s.handleCreateDomain)
	s.mux.HandleFunc("GET /v1/enterprises/{enterprise_id}/domains", s.handleListDomains)
	s.mux.HandleFunc("GET /v1/domains/{domain_id}", s.handleGetDomain)
	s.mux.HandleFunc("GET /v1/domains/{domain_id}/challenges", s.handleListChallenges)
	s.mux.HandleFunc("POST /v1/domains/{domain_id}/verify", s.handleVerifyDomain)
	s.mux.HandleFunc("PUT /v1/domains/{domain_id}/auto-approve", s.handleSetAutoApprove)
	s.mux.HandleFunc("DELETE /v1/domains/{domain_id}", s.handleDeleteDomain)

	s.mux.HandleFunc("GET /v1/ciphers/{cipher_id}/access", s.handleCipherAccess)

	s.mux.HandleFunc("GET /v1/subscriptions/{subscription_id}", s.handleGetSubscription)
	s.mux.HandleFunc("POST /v1/subscriptions/{subscription_id}/prorate", s.handleProratedCharge)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func actorUserID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}
