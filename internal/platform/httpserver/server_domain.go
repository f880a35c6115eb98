package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerrors "locker/contexts/enterprise-management/domain-service/domain/errors"
	domainhttp "locker/contexts/enterprise-management/domain-service/transport/http"
)

func (s *Server) handleCreateDomain(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeDomainError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req domainhttp.CreateDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.domains.Handler.CreateDomainHandler(r.Context(), userID, r.PathValue("enterprise_id"), req)
	if err != nil {
		writeDomainDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	resp, err := s.domains.Handler.ListDomainsHandler(r.Context(), r.PathValue("enterprise_id"))
	if err != nil {
		writeDomainDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDomain(w http.ResponseWriter, r *http.Request) {
	resp, err := s.domains.Handler.GetDomainHandler(r.Context(), r.PathValue("domain_id"))
	if err != nil {
		writeDomainDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	resp, err := s.domains.Handler.ListChallengesHandler(r.Context(), r.PathValue("domain_id"))
	if err != nil {
		writeDomainDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyDomain(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeDomainError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.domains.Handler.VerifyDomainHandler(r.Context(), userID, r.PathValue("domain_id"))
	if err != nil {
		writeDomainDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetAutoApprove(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeDomainError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req domainhttp.SetAutoApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDomainError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.domains.Handler.SetAutoApproveHandler(r.Context(), userID, r.PathValue("domain_id"), req)
	if err != nil {
		writeDomainDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDomain(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeDomainError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	if err := s.domains.Handler.DeleteDomainHandler(r.Context(), userID, r.PathValue("domain_id")); err != nil {
		writeDomainDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeDomainDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidRequest):
		writeDomainError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrDomainNotFound):
		writeDomainError(w, http.StatusNotFound, "domain_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrDomainAlreadyExists),
		errors.Is(err, domainerrors.ErrDomainVerifiedByOther):
		writeDomainError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domainerrors.ErrDomainVerificationFailed):
		writeDomainError(w, http.StatusUnprocessableEntity, "verification_failed", err.Error())
	default:
		writeDomainError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDomainError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, domainhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
