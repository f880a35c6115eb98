package entities

import "time"

// FreePlanID is the plan a subscription falls back to after exhausting
// payment retries.
const FreePlanID = "plan_free"

// Subscription mirrors the externally-authoritative subscription of an
// enterprise owner. MemberBillingUpdatedTime is the settlement watermark:
// a reconciliation run only bills seat changes recorded after it, and the
// watermark advances only when the external call succeeds or is classified
// as a permanent no-op.
type Subscription struct {
	SubscriptionID           string    `json:"subscription_id"`
	EnterpriseID             string    `json:"enterprise_id"`
	OwnerUserID              string    `json:"owner_user_id"`
	PlanID                   string    `json:"plan_id"`
	Quantity                 int       `json:"quantity"`
	PeriodStart              time.Time `json:"period_start"`
	PeriodEnd                time.Time `json:"period_end"`
	Attempts                 int       `json:"attempts"`
	MemberBillingUpdatedTime time.Time `json:"member_billing_updated_time"`
}

// Free reports whether the subscription sits on the default plan.
func (s Subscription) Free() bool {
	return s.PlanID == FreePlanID
}

// SeatChangeEvent is one entry in the seat ledger. Change is +1 or -1 for
// single-member transitions and the admitted count for domain auto-join
// batches.
type SeatChangeEvent struct {
	EventID      string    `json:"event_id"`
	EnterpriseID string    `json:"enterprise_id"`
	MemberID     string    `json:"member_id"`
	Change       int       `json:"change"`
	Reason       string    `json:"reason"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// BillableSeats is the seat quantity owed to the gateway for the cycle:
// activated members beyond the promotional allowance, never negative.
func BillableSeats(activated, allowance int) int {
	billable := activated - allowance
	if billable < 0 {
		return 0
	}
	return billable
}
