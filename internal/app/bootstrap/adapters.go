package bootstrap

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	domainapp "locker/contexts/enterprise-management/domain-service/application"
	domainports "locker/contexts/enterprise-management/domain-service/ports"
	membershipapp "locker/contexts/enterprise-management/membership-service/application"
	membershipentities "locker/contexts/enterprise-management/membership-service/domain/entities"
	membershipports "locker/contexts/enterprise-management/membership-service/ports"
	policyentities "locker/contexts/enterprise-management/policy-service/domain/entities"
	policyports "locker/contexts/enterprise-management/policy-service/ports"
	billingapp "locker/contexts/finance-core/seat-billing-service/application"
	cipherapp "locker/contexts/vault-access/cipher-service/application"
	"locker/internal/platform/taskqueue"
	"locker/internal/shared/events"
)

// Cross-context adapters. Each context talks to its neighbors through its
// own ports; these glue types close the loop at the composition root so the
// contexts themselves never import each other.

// groupDirectory exposes vault group memberships to the membership context.
type groupDirectory struct {
	ciphers cipherapp.Service
}

func (g groupDirectory) ListUserGroupIDs(ctx context.Context, userID string) ([]string, error) {
	groups, err := g.ciphers.ListGroupsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.GroupID)
	}
	return ids, nil
}

func (g groupDirectory) RemoveUserFromGroups(ctx context.Context, userID string) error {
	return g.ciphers.RemoveUserFromGroups(ctx, userID)
}

// domainDirectory projects verified-domain rows into the membership context.
// The service field is bound after module construction; see buildModules.
type domainDirectory struct {
	domains domainapp.Service
}

func (d *domainDirectory) GetDomain(ctx context.Context, domainID string) (membershipports.DomainInfo, error) {
	domain, err := d.domains.GetDomain(ctx, domainID)
	if err != nil {
		return membershipports.DomainInfo{}, err
	}
	return membershipports.DomainInfo{
		DomainID:     domain.DomainID,
		EnterpriseID: domain.EnterpriseID,
		Domain:       domain.Domain,
		Verified:     domain.Verification,
		AutoApprove:  domain.AutoApprove,
	}, nil
}

// memberAdmission lets domain auto-join drive bulk membership transitions.
type memberAdmission struct {
	members membershipapp.Service
}

func (m memberAdmission) ListRequestedMembers(ctx context.Context, enterpriseID, domainID string) ([]domainports.PendingMember, error) {
	requested, err := m.members.ListRequestedMembersOfDomain(ctx, enterpriseID, domainID)
	if err != nil {
		return nil, err
	}
	pending := make([]domainports.PendingMember, 0, len(requested))
	for _, member := range requested {
		pending = append(pending, domainports.PendingMember{
			MemberID: member.MemberID,
			UserID:   userIDOrEmpty(member.UserID),
			Email:    member.Email,
		})
	}
	return pending, nil
}

func (m memberAdmission) ConfirmRequestedMembers(ctx context.Context, enterpriseID, domainID string) (int, error) {
	return m.members.ConfirmRequestedMembersOfDomain(ctx, enterpriseID, domainID)
}

func (m memberAdmission) DeactivateDomainMembers(ctx context.Context, enterpriseID, domainID string) (int, error) {
	return m.members.DeactivateMembersOfDomain(ctx, enterpriseID, domainID)
}

// seatLedger forwards membership seat deltas into the billing ledger.
type seatLedger struct {
	billing billingapp.Service
}

func (l seatLedger) RecordSeatChange(ctx context.Context, change membershipports.SeatChange) error {
	return l.billing.RecordSeatChange(ctx, change.EnterpriseID, change.MemberID, change.Change, change.Reason)
}

// seatRequester forwards bulk-admission seat asks from the domain context.
type seatRequester struct {
	billing billingapp.Service
}

func (r seatRequester) RequestSeatIncrease(ctx context.Context, enterpriseID string, count int) error {
	return r.billing.RequestSeatIncrease(ctx, enterpriseID, count)
}

// memberDirectory projects confirmed memberships into policy resolution.
type memberDirectory struct {
	repo membershipports.Repository
}

func (d memberDirectory) ListConfirmedMemberships(ctx context.Context, userID string) ([]policyports.MembershipView, error) {
	members, err := d.repo.ListMembershipsOfUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]policyports.MembershipView, 0, len(members))
	for _, member := range members {
		if member.Status != membershipentities.StatusConfirmed {
			continue
		}
		views = append(views, policyports.MembershipView{
			EnterpriseID: member.EnterpriseID,
			Role:         policyRole(member.Role),
		})
	}
	return views, nil
}

// enterpriseDirectory projects occupied seats and promo allowance into the
// settlement loop.
type enterpriseDirectory struct {
	repo membershipports.Repository
}

func (d enterpriseDirectory) CountActivatedMembers(ctx context.Context, enterpriseID string) (int, error) {
	return d.repo.CountActivatedMembers(ctx, enterpriseID)
}

func (d enterpriseDirectory) SeatAllowance(ctx context.Context, enterpriseID string, at time.Time) (int, error) {
	enterprise, err := d.repo.GetEnterprise(ctx, enterpriseID)
	if err != nil {
		return 0, err
	}
	return enterprise.SeatAllowance(at), nil
}

// passthroughUsers satisfies the identity collaborator until a directory
// service exists. Invited users are taken at face value.
type passthroughUsers struct{}

func (passthroughUsers) GetOrCreateUser(_ context.Context, userID, email string) (membershipports.User, error) {
	return membershipports.User{UserID: userID, Email: email}, nil
}

func (passthroughUsers) ListUsers(_ context.Context, userIDs []string) ([]membershipports.User, error) {
	users := make([]membershipports.User, 0, len(userIDs))
	for _, id := range userIDs {
		users = append(users, membershipports.User{UserID: id})
	}
	return users, nil
}

// queueAuditSink appends audit events off the request path through the
// in-process task queue. The queue logs the structured event; a durable
// audit store can replace the task body without touching any context.
type queueAuditSink struct {
	queue  *taskqueue.Queue
	logger *slog.Logger
}

func (s queueAuditSink) Append(_ context.Context, event events.AuditEvent) error {
	s.queue.Submit(taskqueue.Task{
		Name: "audit_append",
		Run: func(context.Context) error {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			s.logger.Info("audit event",
				"event", "audit_appended",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"event_type", event.EventType,
				"payload", string(payload),
			)
			return nil
		},
	})
	return nil
}

// queueNotifier dispatches notification jobs through the task queue.
type queueNotifier struct {
	queue  *taskqueue.Queue
	logger *slog.Logger
}

func (n queueNotifier) Send(_ context.Context, job string, recipients []string, data map[string]any) error {
	n.queue.Submit(taskqueue.Task{
		Name: "notify_" + job,
		Run: func(context.Context) error {
			n.logger.Info("notification dispatched",
				"event", "notification_sent",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"job", job,
				"recipients", len(recipients),
				"data_keys", len(data),
			)
			return nil
		},
	})
	return nil
}

// policyRole maps the membership role enum onto the policy context's copy.
// The two enums share wire values on purpose.
func policyRole(role membershipentities.MemberRole) policyentities.MemberRole {
	return policyentities.MemberRole(role)
}

func userIDOrEmpty(userID *string) string {
	if userID == nil {
		return ""
	}
	return *userID
}
