package domainerrors

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// Gateway failure classes. Each must be individually catchable so the
	// settlement loop can decide between skip, retry, and attempt counting.
	ErrPaymentMethodUnsupported = errors.New("payment method unsupported")
	ErrGatewayTimeout           = errors.New("payment gateway timeout")
	ErrGatewayUnavailable       = errors.New("payment gateway unavailable")
	ErrCardDeclined             = errors.New("card declined")
)
