package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	membershiperrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	membershiphttp "locker/contexts/enterprise-management/membership-service/transport/http"
)

func (s *Server) handleCreateEnterprise(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req membershiphttp.CreateEnterpriseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMembershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.membership.Handler.CreateEnterpriseHandler(r.Context(), userID, r.Header.Get("Idempotency-Key"), req)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req membershiphttp.CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMembershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.membership.Handler.CreateMemberHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("enterprise_id"),
		req,
	)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.membership.Handler.ListMembersHandler(
		r.Context(),
		r.PathValue("enterprise_id"),
		r.URL.Query()["status"],
	)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req membershiphttp.UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMembershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.membership.Handler.UpdateMemberHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("enterprise_id"),
		r.PathValue("member_id"),
		req,
	)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetActivated(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req membershiphttp.SetActivatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMembershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.membership.Handler.SetActivatedHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("enterprise_id"),
		r.PathValue("member_id"),
		req,
	)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveInvitation(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req membershiphttp.ResolveInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMembershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.membership.Handler.ResolveInvitationHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("enterprise_id"),
		r.PathValue("member_id"),
		req,
	)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	err := s.membership.Handler.DeleteMemberHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		r.PathValue("enterprise_id"),
		r.PathValue("member_id"),
	)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClaimInvitation(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeMembershipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req membershiphttp.ClaimInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMembershipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.membership.Handler.ClaimInvitationHandler(r.Context(), userID, req)
	if err != nil {
		writeMembershipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeMembershipDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membershiperrors.ErrInvalidRequest):
		writeMembershipError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, membershiperrors.ErrEnterpriseNotFound),
		errors.Is(err, membershiperrors.ErrMemberNotFound):
		writeMembershipError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, membershiperrors.ErrMemberAlreadyExists),
		errors.Is(err, membershiperrors.ErrIdempotencyConflict):
		writeMembershipError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, membershiperrors.ErrMemberUpdateForbidden),
		errors.Is(err, membershiperrors.ErrPrimaryMemberProtected),
		errors.Is(err, membershiperrors.ErrInvitationRejectionForbidden),
		errors.Is(err, membershiperrors.ErrEnterpriseLocked):
		writeMembershipError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, membershiperrors.ErrInvitationTokenInvalid):
		writeMembershipError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, membershiperrors.ErrIdempotencyKeyRequired):
		writeMembershipError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	default:
		writeMembershipError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMembershipError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, membershiphttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
