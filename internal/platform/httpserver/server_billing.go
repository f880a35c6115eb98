package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	billingerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
	billinghttp "locker/contexts/finance-core/seat-billing-service/transport/http"
)

func (s *Server) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	resp, err := s.billing.Handler.GetSubscriptionHandler(r.Context(), r.PathValue("subscription_id"))
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProratedCharge(w http.ResponseWriter, r *http.Request) {
	var req billinghttp.ProratedChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBillingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.billing.Handler.ProratedChargeHandler(r.Context(), r.PathValue("subscription_id"), req)
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBillingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billingerrors.ErrInvalidRequest):
		writeBillingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, billingerrors.ErrSubscriptionNotFound):
		writeBillingError(w, http.StatusNotFound, "subscription_not_found", err.Error())
	case errors.Is(err, billingerrors.ErrPaymentMethodUnsupported):
		writeBillingError(w, http.StatusUnprocessableEntity, "payment_method_unsupported", err.Error())
	case errors.Is(err, billingerrors.ErrCardDeclined):
		writeBillingError(w, http.StatusPaymentRequired, "card_declined", err.Error())
	case errors.Is(err, billingerrors.ErrGatewayTimeout),
		errors.Is(err, billingerrors.ErrGatewayUnavailable):
		writeBillingError(w, http.StatusBadGateway, "gateway_unavailable", err.Error())
	default:
		writeBillingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBillingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, billinghttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
