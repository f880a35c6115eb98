package gatewayadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	domainerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
	"locker/contexts/finance-core/seat-billing-service/ports"
)

// Client talks to the external subscription/payment gateway over HTTP. Every
// call is bounded by the configured timeout; a deadline hit maps onto
// ErrGatewayTimeout so the settlement loop treats it as a permanent skip for
// the cycle.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)
	return &Client{http: client, logger: logger}
}

type subscriptionPayload struct {
	ID       string `json:"id"`
	PlanID   string `json:"plan_id"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

type quantityPayload struct {
	Quantity int `json:"quantity"`
}

type proratePayload struct {
	Quantity     int    `json:"quantity"`
	DurationDays int    `json:"duration_days"`
	PromoCode    string `json:"promo_code,omitempty"`
}

type amountPayload struct {
	Currency string `json:"currency"`
	Cents    int64  `json:"cents"`
}

func (c *Client) GetActiveSubscription(ctx context.Context, ownerUserID string) (ports.GatewaySubscription, bool, error) {
	var payload subscriptionPayload
	response, err := c.http.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParam("owner", ownerUserID).
		Get("/v1/owners/{owner}/subscription")
	if err != nil {
		return ports.GatewaySubscription{}, false, classifyTransportError(err)
	}
	if response.StatusCode() == http.StatusNotFound {
		return ports.GatewaySubscription{}, false, nil
	}
	if err := classifyStatus(response); err != nil {
		return ports.GatewaySubscription{}, false, err
	}
	if payload.Status != "active" {
		return ports.GatewaySubscription{}, false, nil
	}
	return ports.GatewaySubscription{
		GatewayID: payload.ID,
		PlanID:    payload.PlanID,
		Quantity:  payload.Quantity,
	}, true, nil
}

func (c *Client) UpdateSeatQuantity(ctx context.Context, gatewayID string, quantity int) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetBody(quantityPayload{Quantity: quantity}).
		SetPathParam("id", gatewayID).
		Put("/v1/subscriptions/{id}/quantity")
	if err != nil {
		return classifyTransportError(err)
	}
	return classifyStatus(response)
}

func (c *Client) CalcProratedCharge(ctx context.Context, gatewayID string, quantity int, duration time.Duration, promoCode string) (ports.Amount, error) {
	var payload amountPayload
	response, err := c.http.R().
		SetContext(ctx).
		SetBody(proratePayload{
			Quantity:     quantity,
			DurationDays: int(duration.Hours() / 24),
			PromoCode:    promoCode,
		}).
		SetResult(&payload).
		SetPathParam("id", gatewayID).
		Post("/v1/subscriptions/{id}/prorate")
	if err != nil {
		return ports.Amount{}, classifyTransportError(err)
	}
	if err := classifyStatus(response); err != nil {
		return ports.Amount{}, err
	}
	return ports.Amount{Currency: payload.Currency, Cents: payload.Cents}, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domainerrors.ErrGatewayTimeout
	}
	return fmt.Errorf("%w: %s", domainerrors.ErrGatewayUnavailable, err)
}

func classifyStatus(response *resty.Response) error {
	switch {
	case response.IsSuccess():
		return nil
	case response.StatusCode() == http.StatusPaymentRequired:
		return domainerrors.ErrCardDeclined
	case response.StatusCode() == http.StatusUnprocessableEntity:
		return domainerrors.ErrPaymentMethodUnsupported
	case response.StatusCode() == http.StatusNotFound:
		return domainerrors.ErrSubscriptionNotFound
	case response.StatusCode() >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", domainerrors.ErrGatewayUnavailable, response.StatusCode())
	default:
		return fmt.Errorf("gateway rejected request: status %d", response.StatusCode())
	}
}
