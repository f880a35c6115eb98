package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	"locker/contexts/enterprise-management/membership-service/domain/entities"
	"locker/contexts/enterprise-management/membership-service/ports"
	"locker/internal/shared/events"
)

const moduleName = "enterprise-management/membership-service"

// Service owns the membership state machine. All guard rules are local and
// deterministic; external collaborators (seat ledger, audit, mail) are
// best-effort and never roll back a membership mutation.
type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Groups         ports.GroupDirectory
	Domains        ports.DomainDirectory
	Seats          ports.SeatLedger
	Users          ports.UserDirectory
	Tokens         ports.InvitationTokens
	Audit          ports.AuditSink
	Notifier       ports.NotificationDispatcher
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Logger         *slog.Logger
	IdempotencyTTL time.Duration
}

// CreateEnterprise creates the tenant together with its primary admin in one
// repository transaction, so the one-primary-per-enterprise invariant holds
// from the first row.
func (s Service) CreateEnterprise(
	ctx context.Context,
	idempotencyKey string,
	ownerUserID string,
	input ports.CreateEnterpriseInput,
) (entities.Enterprise, error) {
	var out entities.Enterprise
	if strings.TrimSpace(ownerUserID) == "" || strings.TrimSpace(input.Name) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}
	payload, _ := json.Marshal(input)
	requestHash := hashStrings("create_enterprise", ownerUserID, string(payload))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			now := s.now()
			enterpriseID, err := s.IDGenerator.NewID(ctx)
			if err != nil {
				return nil, err
			}
			memberID, err := s.IDGenerator.NewID(ctx)
			if err != nil {
				return nil, err
			}
			owner := ownerUserID
			enterprise := entities.Enterprise{
				EnterpriseID:         enterpriseID,
				Name:                 strings.TrimSpace(input.Name),
				Description:          input.Description,
				Email:                input.Email,
				Phone:                input.Phone,
				Country:              input.Country,
				Address:              input.Address,
				InitSeats:            input.InitSeats,
				InitSeatsExpiredTime: input.InitSeatsExpiredTime,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			primary := entities.Member{
				MemberID:     memberID,
				EnterpriseID: enterpriseID,
				UserID:       &owner,
				Role:         entities.RolePrimaryAdmin,
				Status:       entities.StatusConfirmed,
				IsActivated:  true,
				IsPrimary:    true,
				IsDefault:    true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			created, err := s.Repo.CreateEnterprise(ctx, enterprise, primary)
			if err != nil {
				return nil, err
			}
			s.recordSeatChange(ctx, primary, 1, "primary_admin_created", now)
			s.appendAudit(ctx, created.EnterpriseID, ownerUserID, ownerUserID, "enterprise_created", nil)
			return json.Marshal(created)
		},
	)
	return out, err
}

// CreateMember creates a membership by direct add, email invite, or domain
// auto-join. Fails with ErrMemberAlreadyExists when a membership already
// exists for that user or email within the enterprise.
func (s Service) CreateMember(
	ctx context.Context,
	idempotencyKey string,
	actorUserID string,
	enterpriseID string,
	input ports.CreateMemberInput,
) (entities.Member, error) {
	var out entities.Member
	if strings.TrimSpace(actorUserID) == "" || strings.TrimSpace(enterpriseID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if !input.Role.Valid() || input.Role == entities.RolePrimaryAdmin {
		return out, domainerrors.ErrInvalidRequest
	}
	if !input.Status.Valid() {
		return out, domainerrors.ErrInvalidRequest
	}
	if input.UserID == nil && strings.TrimSpace(input.Email) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}
	payload, _ := json.Marshal(input)
	requestHash := hashStrings("create_member", actorUserID, enterpriseID, string(payload))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			member, err := s.createMember(ctx, actorUserID, enterpriseID, input)
			if err != nil {
				return nil, err
			}
			return json.Marshal(member)
		},
	)
	return out, err
}

func (s Service) createMember(
	ctx context.Context,
	actorUserID string,
	enterpriseID string,
	input ports.CreateMemberInput,
) (entities.Member, error) {
	enterprise, err := s.Repo.GetEnterprise(ctx, enterpriseID)
	if err != nil {
		return entities.Member{}, err
	}
	if enterprise.Locked {
		return entities.Member{}, domainerrors.ErrEnterpriseLocked
	}

	if input.UserID != nil {
		if _, found, err := s.Repo.FindMemberOfUser(ctx, enterpriseID, *input.UserID); err != nil {
			return entities.Member{}, err
		} else if found {
			return entities.Member{}, domainerrors.ErrMemberAlreadyExists
		}
	} else {
		if _, found, err := s.Repo.FindMemberByEmail(ctx, enterpriseID, input.Email); err != nil {
			return entities.Member{}, err
		} else if found {
			return entities.Member{}, domainerrors.ErrMemberAlreadyExists
		}
	}

	now := s.now()
	memberID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Member{}, err
	}

	member := entities.Member{
		MemberID:     memberID,
		EnterpriseID: enterpriseID,
		UserID:       input.UserID,
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		Role:         input.Role,
		Status:       input.Status,
		IsActivated:  true,
		DomainID:     input.DomainID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if member.Status == entities.StatusInvited {
		token, err := s.Tokens.Sign(ports.InvitationClaims{
			MemberID:     memberID,
			EnterpriseID: enterpriseID,
			Email:        member.Email,
		})
		if err != nil {
			return entities.Member{}, err
		}
		member.InvitationToken = token
	}

	created, err := s.Repo.InsertMember(ctx, member)
	if err != nil {
		return entities.Member{}, err
	}

	if created.Billable() {
		s.recordSeatChange(ctx, created, 1, "member_created_confirmed", now)
	}
	s.appendAudit(ctx, enterpriseID, actorUserID, userIDOrEmpty(created.UserID), "member_created", map[string]any{
		"member_id": created.MemberID,
		"role":      string(created.Role),
		"status":    string(created.Status),
	})
	if created.Status == entities.StatusInvited && created.Email != "" {
		s.notify(ctx, "enterprise_invitation", []string{created.Email}, map[string]any{
			"enterprise_name":  enterprise.Name,
			"invitation_token": created.InvitationToken,
		})
	}
	return created, nil
}

// UpdateMember applies optional role and status changes subject to the guard
// rules: a member can never change their own role, the primary member's role
// and status are immutable, and confirmation is only valid from REQUESTED.
func (s Service) UpdateMember(
	ctx context.Context,
	idempotencyKey string,
	actorUserID string,
	enterpriseID string,
	memberID string,
	input ports.UpdateMemberInput,
) (entities.Member, error) {
	var out entities.Member
	if strings.TrimSpace(actorUserID) == "" ||
		strings.TrimSpace(enterpriseID) == "" ||
		strings.TrimSpace(memberID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if input.Role == nil && input.Status == nil {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}
	payload, _ := json.Marshal(input)
	requestHash := hashStrings("update_member", actorUserID, enterpriseID, memberID, string(payload))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			member, err := s.updateMember(ctx, actorUserID, enterpriseID, memberID, input)
			if err != nil {
				return nil, err
			}
			return json.Marshal(member)
		},
	)
	return out, err
}

func (s Service) updateMember(
	ctx context.Context,
	actorUserID string,
	enterpriseID string,
	memberID string,
	input ports.UpdateMemberInput,
) (entities.Member, error) {
	member, err := s.Repo.GetMember(ctx, enterpriseID, memberID)
	if err != nil {
		return entities.Member{}, err
	}

	if input.Role != nil {
		if !input.Role.Valid() || *input.Role == entities.RolePrimaryAdmin {
			return entities.Member{}, domainerrors.ErrInvalidRequest
		}
		if member.BelongsTo(actorUserID) || member.IsPrimary {
			return entities.Member{}, domainerrors.ErrMemberUpdateForbidden
		}
		member.Role = *input.Role
	}

	wasBillable := member.Billable()
	if input.Status != nil {
		if member.IsPrimary {
			return entities.Member{}, domainerrors.ErrMemberUpdateForbidden
		}
		if *input.Status != entities.StatusConfirmed {
			return entities.Member{}, domainerrors.ErrInvalidRequest
		}
		if member.Status != entities.StatusRequested {
			return entities.Member{}, domainerrors.ErrMemberUpdateForbidden
		}
		member.Status = entities.StatusConfirmed
	}

	now := s.now()
	member.UpdatedAt = now
	saved, err := s.Repo.SaveMember(ctx, member)
	if err != nil {
		return entities.Member{}, err
	}

	if !wasBillable && saved.Billable() {
		s.recordSeatChange(ctx, saved, 1, "member_confirmed", now)
	}
	s.appendAudit(ctx, enterpriseID, actorUserID, userIDOrEmpty(saved.UserID), "member_updated", map[string]any{
		"member_id": saved.MemberID,
		"role":      string(saved.Role),
		"status":    string(saved.Status),
	})
	return saved, nil
}

// SetActivated toggles the billing gate of a confirmed member. The returned
// bool reports whether the change is billing-relevant. Deactivation strips
// the user from every vault group as a side effect.
func (s Service) SetActivated(
	ctx context.Context,
	idempotencyKey string,
	actorUserID string,
	enterpriseID string,
	memberID string,
	activated bool,
) (entities.Member, bool, error) {
	var out activationResult
	if strings.TrimSpace(actorUserID) == "" ||
		strings.TrimSpace(enterpriseID) == "" ||
		strings.TrimSpace(memberID) == "" {
		return entities.Member{}, false, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return entities.Member{}, false, err
	}
	requestHash := hashStrings(
		"set_activated", actorUserID, enterpriseID, memberID,
		map[bool]string{true: "true", false: "false"}[activated],
	)
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			result, err := s.setActivated(ctx, actorUserID, enterpriseID, memberID, activated)
			if err != nil {
				return nil, err
			}
			return json.Marshal(result)
		},
	)
	return out.Member, out.BillingRelevant, err
}

type activationResult struct {
	Member          entities.Member `json:"member"`
	BillingRelevant bool            `json:"billing_relevant"`
}

func (s Service) setActivated(
	ctx context.Context,
	actorUserID string,
	enterpriseID string,
	memberID string,
	activated bool,
) (activationResult, error) {
	member, err := s.Repo.GetMember(ctx, enterpriseID, memberID)
	if err != nil {
		return activationResult{}, err
	}
	if member.BelongsTo(actorUserID) {
		return activationResult{}, domainerrors.ErrMemberUpdateForbidden
	}
	if member.Status != entities.StatusConfirmed {
		return activationResult{}, domainerrors.ErrMemberNotFound
	}
	if member.IsActivated == activated {
		return activationResult{Member: member}, nil
	}

	now := s.now()
	member.IsActivated = activated
	member.UpdatedAt = now
	saved, err := s.Repo.SaveMember(ctx, member)
	if err != nil {
		return activationResult{}, err
	}

	if !activated && saved.UserID != nil {
		if err := s.Groups.RemoveUserFromGroups(ctx, *saved.UserID); err != nil {
			ResolveLogger(s.Logger).Error("group membership removal failed",
				"event", "member_group_removal_failed",
				"module", moduleName,
				"layer", "application",
				"member_id", saved.MemberID,
				"error", err.Error(),
			)
		}
	}

	change := -1
	reason := "member_deactivated"
	if activated {
		change = 1
		reason = "member_activated"
	}
	s.recordSeatChange(ctx, saved, change, reason, now)
	s.appendAudit(ctx, enterpriseID, actorUserID, userIDOrEmpty(saved.UserID), reason, map[string]any{
		"member_id": saved.MemberID,
	})
	return activationResult{Member: saved, BillingRelevant: true}, nil
}

// InvitationDecision is the invited member's answer to their invite.
type InvitationDecision string

const (
	DecisionConfirm InvitationDecision = "confirm"
	DecisionReject  InvitationDecision = "reject"
)

// ResolveInvitation lets an invited member accept or reject the invitation.
// Domain-bound invites cannot be rejected. Accepting a domain-bound invite
// moves to CONFIRMED when the domain auto-approves, otherwise to REQUESTED;
// a direct invite confirms immediately.
func (s Service) ResolveInvitation(
	ctx context.Context,
	idempotencyKey string,
	actorUserID string,
	enterpriseID string,
	memberID string,
	decision InvitationDecision,
) (entities.Member, error) {
	var out entities.Member
	if strings.TrimSpace(actorUserID) == "" ||
		strings.TrimSpace(enterpriseID) == "" ||
		strings.TrimSpace(memberID) == "" {
		return out, domainerrors.ErrInvalidRequest
	}
	if decision != DecisionConfirm && decision != DecisionReject {
		return out, domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return out, err
	}
	requestHash := hashStrings("resolve_invitation", actorUserID, enterpriseID, memberID, string(decision))
	err := s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func(raw []byte) error { return json.Unmarshal(raw, &out) },
		func() ([]byte, error) {
			member, err := s.resolveInvitation(ctx, actorUserID, enterpriseID, memberID, decision)
			if err != nil {
				return nil, err
			}
			return json.Marshal(member)
		},
	)
	return out, err
}

func (s Service) resolveInvitation(
	ctx context.Context,
	actorUserID string,
	enterpriseID string,
	memberID string,
	decision InvitationDecision,
) (entities.Member, error) {
	member, err := s.Repo.GetMember(ctx, enterpriseID, memberID)
	if err != nil {
		return entities.Member{}, err
	}
	if member.Status != entities.StatusInvited {
		return entities.Member{}, domainerrors.ErrMemberUpdateForbidden
	}
	if member.UserID != nil && !member.BelongsTo(actorUserID) {
		return entities.Member{}, domainerrors.ErrMemberUpdateForbidden
	}

	if decision == DecisionReject {
		if member.DomainBound() {
			return entities.Member{}, domainerrors.ErrInvitationRejectionForbidden
		}
		if err := s.Repo.DeleteMember(ctx, enterpriseID, memberID); err != nil {
			return entities.Member{}, err
		}
		s.appendAudit(ctx, enterpriseID, actorUserID, actorUserID, "invitation_rejected", map[string]any{
			"member_id": memberID,
		})
		member.UpdatedAt = s.now()
		return member, nil
	}

	if member.UserID == nil {
		user, err := s.Users.GetOrCreateUser(ctx, actorUserID, member.Email)
		if err != nil {
			return entities.Member{}, err
		}
		userID := user.UserID
		member.UserID = &userID
	}

	next := entities.StatusConfirmed
	if member.DomainBound() {
		domain, err := s.Domains.GetDomain(ctx, *member.DomainID)
		if err != nil {
			return entities.Member{}, err
		}
		if !domain.AutoApprove {
			next = entities.StatusRequested
		}
	}

	now := s.now()
	member.Status = next
	member.InvitationToken = ""
	member.UpdatedAt = now
	saved, err := s.Repo.SaveMember(ctx, member)
	if err != nil {
		return entities.Member{}, err
	}

	if saved.Billable() {
		s.recordSeatChange(ctx, saved, 1, "invitation_confirmed", now)
	}
	s.appendAudit(ctx, enterpriseID, actorUserID, actorUserID, "invitation_confirmed", map[string]any{
		"member_id": saved.MemberID,
		"status":    string(saved.Status),
	})
	return saved, nil
}

// DeleteMember removes a membership. The primary member can never be
// deleted, nor can a member delete themselves.
func (s Service) DeleteMember(
	ctx context.Context,
	idempotencyKey string,
	actorUserID string,
	enterpriseID string,
	memberID string,
) error {
	if strings.TrimSpace(actorUserID) == "" ||
		strings.TrimSpace(enterpriseID) == "" ||
		strings.TrimSpace(memberID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := s.requireIdempotency(idempotencyKey); err != nil {
		return err
	}
	requestHash := hashStrings("delete_member", actorUserID, enterpriseID, memberID)
	return s.runIdempotent(
		ctx,
		strings.TrimSpace(idempotencyKey),
		requestHash,
		func([]byte) error { return nil },
		func() ([]byte, error) {
			if err := s.deleteMember(ctx, actorUserID, enterpriseID, memberID); err != nil {
				return nil, err
			}
			return json.Marshal(struct{}{})
		},
	)
}

func (s Service) deleteMember(ctx context.Context, actorUserID, enterpriseID, memberID string) error {
	member, err := s.Repo.GetMember(ctx, enterpriseID, memberID)
	if err != nil {
		return err
	}
	if member.IsPrimary {
		return domainerrors.ErrPrimaryMemberProtected
	}
	if member.BelongsTo(actorUserID) {
		return domainerrors.ErrMemberUpdateForbidden
	}
	if err := s.Repo.DeleteMember(ctx, enterpriseID, memberID); err != nil {
		return err
	}

	now := s.now()
	if member.Billable() {
		s.recordSeatChange(ctx, member, -1, "member_deleted", now)
	}
	if member.UserID != nil {
		if err := s.Groups.RemoveUserFromGroups(ctx, *member.UserID); err != nil {
			ResolveLogger(s.Logger).Error("group membership removal failed",
				"event", "member_group_removal_failed",
				"module", moduleName,
				"layer", "application",
				"member_id", member.MemberID,
				"error", err.Error(),
			)
		}
	}
	s.appendAudit(ctx, enterpriseID, actorUserID, userIDOrEmpty(member.UserID), "member_deleted", map[string]any{
		"member_id": member.MemberID,
	})
	return nil
}

// ClaimInvitation binds an email-only invite to the registering user via the
// signed invitation token.
func (s Service) ClaimInvitation(ctx context.Context, token, userID string) (entities.Member, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(userID) == "" {
		return entities.Member{}, domainerrors.ErrInvalidRequest
	}
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return entities.Member{}, domainerrors.ErrInvitationTokenInvalid
	}
	member, err := s.Repo.GetMember(ctx, claims.EnterpriseID, claims.MemberID)
	if err != nil {
		return entities.Member{}, err
	}
	if member.InvitationToken != token {
		return entities.Member{}, domainerrors.ErrInvitationTokenInvalid
	}
	if member.UserID != nil {
		return member, nil
	}
	member.UserID = &userID
	member.UpdatedAt = s.now()
	return s.Repo.SaveMember(ctx, member)
}

// GetMember fetches a single membership row.
func (s Service) GetMember(ctx context.Context, enterpriseID, memberID string) (entities.Member, error) {
	if strings.TrimSpace(enterpriseID) == "" || strings.TrimSpace(memberID) == "" {
		return entities.Member{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetMember(ctx, enterpriseID, memberID)
}

// ListMembers lists memberships of an enterprise with optional filters.
func (s Service) ListMembers(ctx context.Context, enterpriseID string, filter ports.MemberFilter) ([]entities.Member, error) {
	if strings.TrimSpace(enterpriseID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListMembers(ctx, enterpriseID, filter)
}

// ListRequestedMembersOfDomain returns the REQUESTED memberships bound to a
// verified domain. The auto-approve sweep reads this before confirming.
func (s Service) ListRequestedMembersOfDomain(ctx context.Context, enterpriseID, domainID string) ([]entities.Member, error) {
	if strings.TrimSpace(enterpriseID) == "" || strings.TrimSpace(domainID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListMembers(ctx, enterpriseID, ports.MemberFilter{
		Statuses: []entities.MemberStatus{entities.StatusRequested},
		DomainID: &domainID,
	})
}

// ConfirmRequestedMembersOfDomain promotes every REQUESTED membership bound
// to the domain to CONFIRMED and activates it. Each promotion emits a +1
// seat change.
func (s Service) ConfirmRequestedMembersOfDomain(ctx context.Context, enterpriseID, domainID string) (int, error) {
	members, err := s.ListRequestedMembersOfDomain(ctx, enterpriseID, domainID)
	if err != nil {
		return 0, err
	}

	now := s.now()
	confirmed := 0
	for _, member := range members {
		member.Status = entities.StatusConfirmed
		member.IsActivated = true
		member.UpdatedAt = now
		saved, err := s.Repo.SaveMember(ctx, member)
		if err != nil {
			return confirmed, err
		}
		s.recordSeatChange(ctx, saved, 1, "member_auto_approved", now)
		confirmed++
	}
	if confirmed > 0 {
		s.appendAudit(ctx, enterpriseID, "", "", "domain_members_confirmed", map[string]any{
			"domain_id": domainID,
			"count":     confirmed,
		})
	}
	return confirmed, nil
}

// DeactivateMembersOfDomain deactivates every activated membership bound to
// a removed domain. Each deactivated user is stripped from vault groups, the
// same cascade single-member deactivation runs.
func (s Service) DeactivateMembersOfDomain(ctx context.Context, enterpriseID, domainID string) (int, error) {
	if strings.TrimSpace(enterpriseID) == "" || strings.TrimSpace(domainID) == "" {
		return 0, domainerrors.ErrInvalidRequest
	}
	activated := true
	members, err := s.Repo.ListMembers(ctx, enterpriseID, ports.MemberFilter{
		DomainID:  &domainID,
		Activated: &activated,
	})
	if err != nil {
		return 0, err
	}

	now := s.now()
	deactivated := 0
	for _, member := range members {
		member.IsActivated = false
		member.UpdatedAt = now
		saved, err := s.Repo.SaveMember(ctx, member)
		if err != nil {
			return deactivated, err
		}
		if saved.UserID != nil {
			if err := s.Groups.RemoveUserFromGroups(ctx, *saved.UserID); err != nil {
				ResolveLogger(s.Logger).Error("group membership removal failed",
					"event", "member_group_removal_failed",
					"module", moduleName,
					"layer", "application",
					"member_id", saved.MemberID,
					"error", err.Error(),
				)
			}
		}
		s.recordSeatChange(ctx, saved, -1, "member_deactivated", now)
		deactivated++
	}
	if deactivated > 0 {
		s.appendAudit(ctx, enterpriseID, "", "", "domain_members_deactivated", map[string]any{
			"domain_id": domainID,
			"count":     deactivated,
		})
	}
	return deactivated, nil
}

func (s Service) recordSeatChange(ctx context.Context, member entities.Member, change int, reason string, now time.Time) {
	err := s.Seats.RecordSeatChange(ctx, ports.SeatChange{
		EnterpriseID: member.EnterpriseID,
		MemberID:     member.MemberID,
		Change:       change,
		Reason:       reason,
		OccurredAt:   now,
	})
	if err != nil {
		ResolveLogger(s.Logger).Error("seat change record failed",
			"event", "member_seat_change_failed",
			"module", moduleName,
			"layer", "application",
			"member_id", member.MemberID,
			"change", change,
			"error", err.Error(),
		)
	}
}

func (s Service) appendAudit(ctx context.Context, enterpriseID, actingUserID, affectedUserID, eventType string, metadata map[string]any) {
	id, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		id = ""
	}
	err = s.Audit.Append(ctx, events.AuditEvent{
		EventID:        id,
		EventType:      eventType,
		SourceService:  moduleName,
		OccurredAtUTC:  s.now(),
		EnterpriseIDs:  []string{enterpriseID},
		ActingUserID:   actingUserID,
		AffectedUserID: affectedUserID,
		Metadata:       metadata,
	})
	if err != nil {
		ResolveLogger(s.Logger).Warn("audit append failed",
			"event", "member_audit_append_failed",
			"module", moduleName,
			"layer", "application",
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (s Service) notify(ctx context.Context, job string, recipients []string, data map[string]any) {
	if err := s.Notifier.Send(ctx, job, recipients, data); err != nil {
		ResolveLogger(s.Logger).Warn("notification dispatch failed",
			"event", "member_notification_failed",
			"module", moduleName,
			"layer", "application",
			"job", job,
			"error", err.Error(),
		)
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) requireIdempotency(key string) error {
	if strings.TrimSpace(key) == "" {
		return domainerrors.ErrIdempotencyKeyRequired
	}
	return nil
}

func (s Service) runIdempotent(
	ctx context.Context,
	key string,
	requestHash string,
	decode func([]byte) error,
	exec func() ([]byte, error),
) error {
	now := s.now()
	record, found, err := s.Idempotency.Get(ctx, key, now)
	if err != nil {
		return err
	}
	if found {
		if record.RequestHash != requestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return decode(record.Payload)
	}

	payload, err := exec()
	if err != nil {
		return err
	}
	if err := s.Idempotency.Put(ctx, ports.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Payload:     payload,
		ExpiresAt:   now.Add(s.idempotencyTTL()),
	}); err != nil {
		return err
	}
	return decode(payload)
}

func userIDOrEmpty(userID *string) string {
	if userID == nil {
		return ""
	}
	return *userID
}

func hashStrings(values ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(sum[:])
}
