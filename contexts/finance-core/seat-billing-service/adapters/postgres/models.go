package postgresadapter

import (
	"time"

	"locker/contexts/finance-core/seat-billing-service/domain/entities"
)

type subscriptionModel struct {
	SubscriptionID           string    `gorm:"primaryKey;column:subscription_id"`
	EnterpriseID             string    `gorm:"column:enterprise_id"`
	OwnerUserID              string    `gorm:"column:owner_user_id"`
	PlanID                   string    `gorm:"column:plan_id"`
	Quantity                 int       `gorm:"column:quantity"`
	PeriodStart              time.Time `gorm:"column:period_start"`
	PeriodEnd                time.Time `gorm:"column:period_end"`
	Attempts                 int       `gorm:"column:attempts"`
	MemberBillingUpdatedTime time.Time `gorm:"column:member_billing_updated_time"`
}

func (subscriptionModel) TableName() string { return "subscriptions" }

func (m subscriptionModel) toEntity() entities.Subscription {
	return entities.Subscription{
		SubscriptionID:           m.SubscriptionID,
		EnterpriseID:             m.EnterpriseID,
		OwnerUserID:              m.OwnerUserID,
		PlanID:                   m.PlanID,
		Quantity:                 m.Quantity,
		PeriodStart:              m.PeriodStart,
		PeriodEnd:                m.PeriodEnd,
		Attempts:                 m.Attempts,
		MemberBillingUpdatedTime: m.MemberBillingUpdatedTime,
	}
}

func subscriptionFromEntity(subscription entities.Subscription) subscriptionModel {
	return subscriptionModel{
		SubscriptionID:           subscription.SubscriptionID,
		EnterpriseID:             subscription.EnterpriseID,
		OwnerUserID:              subscription.OwnerUserID,
		PlanID:                   subscription.PlanID,
		Quantity:                 subscription.Quantity,
		PeriodStart:              subscription.PeriodStart,
		PeriodEnd:                subscription.PeriodEnd,
		Attempts:                 subscription.Attempts,
		MemberBillingUpdatedTime: subscription.MemberBillingUpdatedTime,
	}
}

type seatChangeModel struct {
	EventID      string    `gorm:"primaryKey;column:event_id"`
	EnterpriseID string    `gorm:"column:enterprise_id"`
	MemberID     string    `gorm:"column:member_id"`
	Change       int       `gorm:"column:change"`
	Reason       string    `gorm:"column:reason"`
	OccurredAt   time.Time `gorm:"column:occurred_at"`
}

func (seatChangeModel) TableName() string { return "seat_change_events" }

func seatChangeFromEntity(event entities.SeatChangeEvent) seatChangeModel {
	return seatChangeModel{
		EventID:      event.EventID,
		EnterpriseID: event.EnterpriseID,
		MemberID:     event.MemberID,
		Change:       event.Change,
		Reason:       event.Reason,
		OccurredAt:   event.OccurredAt,
	}
}
