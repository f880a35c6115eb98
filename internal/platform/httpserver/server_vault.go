package httpserver

import (
	"errors"
	"net/http"

	ciphererrors "locker/contexts/vault-access/cipher-service/domain/errors"
	cipherhttp "locker/contexts/vault-access/cipher-service/transport/http"
)

func (s *Server) handleCipherAccess(w http.ResponseWriter, r *http.Request) {
	userID := actorUserID(r)
	if userID == "" {
		writeCipherError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.ciphers.Handler.CheckAccessHandler(r.Context(), userID, r.PathValue("cipher_id"))
	if err != nil {
		writeCipherDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCipherDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ciphererrors.ErrInvalidRequest):
		writeCipherError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ciphererrors.ErrCipherNotFound),
		errors.Is(err, ciphererrors.ErrTeamNotFound):
		writeCipherError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeCipherError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCipherError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, cipherhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
