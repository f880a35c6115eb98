package httptransport

import "time"

type SubscriptionResponse struct {
	SubscriptionID string    `json:"subscription_id"`
	EnterpriseID   string    `json:"enterprise_id"`
	PlanID         string    `json:"plan_id"`
	Quantity       int       `json:"quantity"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	Attempts       int       `json:"attempts"`
}

type ProratedChargeRequest struct {
	Quantity  int    `json:"quantity"`
	PromoCode string `json:"promo_code,omitempty"`
}

type ProratedChargeResponse struct {
	Currency string `json:"currency"`
	Cents    int64  `json:"cents"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
