package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	policyerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	policyhttp "locker/contexts/enterprise-management/policy-service/transport/http"
)

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	resp, err := s.policy.Handler.ListPoliciesHandler(r.Context(), r.PathValue("enterprise_id"))
	if err != nil {
		writePolicyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	resp, err := s.policy.Handler.GetPolicyHandler(r.Context(), r.PathValue("enterprise_id"), r.PathValue("kind"))
	if err != nil {
		writePolicyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	actorRole := r.Header.Get("X-User-Role")
	if actorRole == "" {
		writePolicyError(w, http.StatusUnauthorized, "missing_role", "X-User-Role header is required")
		return
	}

	var req policyhttp.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePolicyError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.policy.Handler.UpdatePolicyHandler(
		r.Context(),
		actorRole,
		r.PathValue("enterprise_id"),
		r.PathValue("kind"),
		req,
	)
	if err != nil {
		writePolicyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEffectiveLockout(w http.ResponseWriter, r *http.Request) {
	resp, err := s.policy.Handler.EffectiveLockoutHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writePolicyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePolicyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, policyerrors.ErrInvalidRequest):
		writePolicyError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, policyerrors.ErrPolicyNotFound),
		errors.Is(err, policyerrors.ErrEnterpriseNotFound):
		writePolicyError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, policyerrors.ErrForbidden):
		writePolicyError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writePolicyError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writePolicyError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, policyhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
