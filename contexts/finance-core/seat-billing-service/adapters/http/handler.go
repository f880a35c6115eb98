package httpadapter

import (
	"context"
	"log/slog"

	"locker/contexts/finance-core/seat-billing-service/application"
	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	httptransport "locker/contexts/finance-core/seat-billing-service/transport/http"
)

// Handler maps HTTP DTOs to billing application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetSubscriptionHandler(
	ctx context.Context,
	subscriptionID string,
) (httptransport.SubscriptionResponse, error) {
	subscription, err := h.Service.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return httptransport.SubscriptionResponse{}, err
	}
	return subscriptionResponse(subscription), nil
}

func (h Handler) ProratedChargeHandler(
	ctx context.Context,
	subscriptionID string,
	request httptransport.ProratedChargeRequest,
) (httptransport.ProratedChargeResponse, error) {
	amount, err := h.Service.ProratedCharge(ctx, subscriptionID, request.Quantity, request.PromoCode)
	if err != nil {
		return httptransport.ProratedChargeResponse{}, err
	}
	return httptransport.ProratedChargeResponse{
		Currency: amount.Currency,
		Cents:    amount.Cents,
	}, nil
}

func subscriptionResponse(subscription entities.Subscription) httptransport.SubscriptionResponse {
	return httptransport.SubscriptionResponse{
		SubscriptionID: subscription.SubscriptionID,
		EnterpriseID:   subscription.EnterpriseID,
		PlanID:         subscription.PlanID,
		Quantity:       subscription.Quantity,
		PeriodStart:    subscription.PeriodStart,
		PeriodEnd:      subscription.PeriodEnd,
		Attempts:       subscription.Attempts,
	}
}
