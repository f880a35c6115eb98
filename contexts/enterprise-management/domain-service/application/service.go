package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "locker/contexts/enterprise-management/domain-service/domain/errors"
	"locker/contexts/enterprise-management/domain-service/domain/entities"
	"locker/contexts/enterprise-management/domain-service/ports"
	"locker/internal/shared/events"
)

const moduleName = "enterprise-management/domain-service"

const challengeRecordType = "TXT"

// Service owns domain claims, ownership verification, and auto-join. DNS
// failures are external-dependency failures: they are logged and retried by
// the poller, never surfaced into membership mutations.
type Service struct {
	Repo        ports.Repository
	Resolver    ports.DNSResolver
	Members     ports.MemberAdmission
	Seats       ports.SeatRequester
	Audit       ports.AuditSink
	Notifier    ports.NotificationDispatcher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// CreateDomain claims a domain for an enterprise and issues its ownership
// challenge. The claim inherits verification when the same enterprise has
// already verified the root domain through another subdomain.
func (s Service) CreateDomain(ctx context.Context, actorUserID, enterpriseID, domainName string) (entities.Domain, []entities.OwnershipChallenge, error) {
	domainName = strings.ToLower(strings.TrimSpace(domainName))
	if strings.TrimSpace(enterpriseID) == "" || domainName == "" || !strings.Contains(domainName, ".") {
		return entities.Domain{}, nil, domainerrors.ErrInvalidRequest
	}

	if _, found, err := s.Repo.FindDomainByName(ctx, enterpriseID, domainName); err != nil {
		return entities.Domain{}, nil, err
	} else if found {
		return entities.Domain{}, nil, domainerrors.ErrDomainAlreadyExists
	}

	rootDomain := entities.RootDomainOf(domainName)
	if holder, held, err := s.Repo.RootDomainVerifiedBy(ctx, rootDomain); err != nil {
		return entities.Domain{}, nil, err
	} else if held && holder != enterpriseID {
		return entities.Domain{}, nil, domainerrors.ErrDomainVerifiedByOther
	}

	inherited, err := s.Repo.RootDomainVerifiedInEnterprise(ctx, enterpriseID, rootDomain)
	if err != nil {
		return entities.Domain{}, nil, err
	}

	now := s.now()
	domainID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Domain{}, nil, err
	}
	domain := entities.Domain{
		DomainID:     domainID,
		EnterpriseID: enterpriseID,
		Domain:       domainName,
		RootDomain:   rootDomain,
		Verification: inherited,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	challenge, err := s.newChallenge(ctx, domain)
	if err != nil {
		return entities.Domain{}, nil, err
	}
	challenges := []entities.OwnershipChallenge{challenge}

	created, err := s.Repo.InsertDomain(ctx, domain, challenges)
	if err != nil {
		return entities.Domain{}, nil, err
	}

	s.appendAudit(ctx, enterpriseID, actorUserID, "domain_created", map[string]any{
		"domain_id": created.DomainID,
		"domain":    created.Domain,
	})
	return created, challenges, nil
}

func (s Service) newChallenge(ctx context.Context, domain entities.Domain) (entities.OwnershipChallenge, error) {
	ownershipID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.OwnershipChallenge{}, err
	}
	token, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.OwnershipChallenge{}, err
	}
	return entities.OwnershipChallenge{
		OwnershipID: ownershipID,
		DomainID:    domain.DomainID,
		RecordType:  challengeRecordType,
		Key:         "_locker-challenge." + domain.Domain,
		Value:       "locker-verification=" + strings.ReplaceAll(token, "-", ""),
	}, nil
}

// CheckVerification polls the outstanding challenges of a domain. Any single
// satisfied challenge verifies the domain. Safe to re-invoke: already
// verified domains and challenges short-circuit.
func (s Service) CheckVerification(ctx context.Context, domainID string) (bool, error) {
	domain, err := s.Repo.GetDomain(ctx, domainID)
	if err != nil {
		return false, err
	}
	if domain.Verification {
		return true, nil
	}

	challenges, err := s.Repo.ListChallenges(ctx, domainID)
	if err != nil {
		return false, err
	}

	now := s.now()
	for _, challenge := range challenges {
		if challenge.Verified {
			return s.markDomainVerified(ctx, domain, now)
		}
		values, err := s.Resolver.Lookup(ctx, challenge.Key, challenge.RecordType)
		if err != nil {
			ResolveLogger(s.Logger).Debug("dns lookup failed",
				"event", "domain_dns_lookup_failed",
				"module", moduleName,
				"layer", "application",
				"domain_id", domainID,
				"record", challenge.Key,
				"error", err.Error(),
			)
			continue
		}
		for _, value := range values {
			if strings.TrimSpace(value) != challenge.Value {
				continue
			}
			if err := s.Repo.MarkChallengeVerified(ctx, challenge.OwnershipID, now); err != nil {
				return false, err
			}
			return s.markDomainVerified(ctx, domain, now)
		}
	}
	return false, nil
}

func (s Service) markDomainVerified(ctx context.Context, domain entities.Domain, now time.Time) (bool, error) {
	domain.Verification = true
	domain.UpdatedAt = now
	if _, err := s.Repo.SaveDomain(ctx, domain); err != nil {
		return false, err
	}
	s.appendAudit(ctx, domain.EnterpriseID, "", "domain_verified", map[string]any{
		"domain_id": domain.DomainID,
		"domain":    domain.Domain,
	})
	return true, nil
}

// VerifyDomain is the user-triggered verification. It re-checks root-domain
// exclusivity before accepting the claim, and reports a verification failure
// when no challenge matches.
func (s Service) VerifyDomain(ctx context.Context, actorUserID, domainID string) (entities.Domain, error) {
	domain, err := s.Repo.GetDomain(ctx, domainID)
	if err != nil {
		return entities.Domain{}, err
	}

	// Exclusivity may have changed since the claim was created; the check
	// applies even when the DNS record is in place.
	if holder, held, err := s.Repo.RootDomainVerifiedBy(ctx, domain.RootDomain); err != nil {
		return entities.Domain{}, err
	} else if held && holder != domain.EnterpriseID {
		return entities.Domain{}, domainerrors.ErrDomainVerifiedByOther
	}

	verified, err := s.CheckVerification(ctx, domainID)
	if err != nil {
		return entities.Domain{}, err
	}
	if !verified {
		return entities.Domain{}, domainerrors.ErrDomainVerificationFailed
	}

	domain, err = s.Repo.GetDomain(ctx, domainID)
	if err != nil {
		return entities.Domain{}, err
	}
	s.appendAudit(ctx, domain.EnterpriseID, actorUserID, "domain_verification_accepted", map[string]any{
		"domain_id": domain.DomainID,
	})
	return domain, nil
}

// SetAutoApprove flips the auto-approve flag; enabling it immediately admits
// pending members.
func (s Service) SetAutoApprove(ctx context.Context, actorUserID, domainID string, autoApprove bool) (entities.Domain, error) {
	domain, err := s.Repo.GetDomain(ctx, domainID)
	if err != nil {
		return entities.Domain{}, err
	}
	if domain.AutoApprove == autoApprove {
		return domain, nil
	}
	domain.AutoApprove = autoApprove
	domain.UpdatedAt = s.now()
	saved, err := s.Repo.SaveDomain(ctx, domain)
	if err != nil {
		return entities.Domain{}, err
	}
	if autoApprove && saved.Verification {
		if _, err := s.AutoApprove(ctx, saved.DomainID); err != nil {
			ResolveLogger(s.Logger).Error("auto approve sweep failed",
				"event", "domain_auto_approve_failed",
				"module", moduleName,
				"layer", "application",
				"domain_id", saved.DomainID,
				"error", err.Error(),
			)
		}
	}
	s.appendAudit(ctx, saved.EnterpriseID, actorUserID, "domain_auto_approve_changed", map[string]any{
		"domain_id":    saved.DomainID,
		"auto_approve": autoApprove,
	})
	return saved, nil
}

// AutoApprove bulk-transitions every REQUESTED member bound to the domain to
// CONFIRMED. The seat increase is requested best-effort first; a billing
// failure never blocks the admission.
func (s Service) AutoApprove(ctx context.Context, domainID string) (int, error) {
	domain, err := s.Repo.GetDomain(ctx, domainID)
	if err != nil {
		return 0, err
	}
	if !domain.Verification || !domain.AutoApprove {
		return 0, nil
	}

	pending, err := s.Members.ListRequestedMembers(ctx, domain.EnterpriseID, domainID)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := s.Seats.RequestSeatIncrease(ctx, domain.EnterpriseID, len(pending)); err != nil {
		ResolveLogger(s.Logger).Warn("seat increase request failed, admitting anyway",
			"event", "domain_seat_increase_failed",
			"module", moduleName,
			"layer", "application",
			"domain_id", domainID,
			"count", len(pending),
			"error", err.Error(),
		)
	}

	confirmed, err := s.Members.ConfirmRequestedMembers(ctx, domain.EnterpriseID, domainID)
	if err != nil {
		return 0, err
	}
	s.appendAudit(ctx, domain.EnterpriseID, "", "domain_members_auto_approved", map[string]any{
		"domain_id": domainID,
		"count":     confirmed,
	})
	return confirmed, nil
}

// DeleteDomain removes the claim and deactivates every member admitted
// through it.
func (s Service) DeleteDomain(ctx context.Context, actorUserID, domainID string) error {
	domain, err := s.Repo.GetDomain(ctx, domainID)
	if err != nil {
		return err
	}
	deactivated, err := s.Members.DeactivateDomainMembers(ctx, domain.EnterpriseID, domainID)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteDomain(ctx, domainID); err != nil {
		return err
	}
	s.appendAudit(ctx, domain.EnterpriseID, actorUserID, "domain_deleted", map[string]any{
		"domain_id":   domainID,
		"deactivated": deactivated,
	})
	return nil
}

// GetDomain fetches one domain row.
func (s Service) GetDomain(ctx context.Context, domainID string) (entities.Domain, error) {
	if strings.TrimSpace(domainID) == "" {
		return entities.Domain{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetDomain(ctx, domainID)
}

// ListDomains lists the claims of an enterprise.
func (s Service) ListDomains(ctx context.Context, enterpriseID string) ([]entities.Domain, error) {
	if strings.TrimSpace(enterpriseID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListDomains(ctx, enterpriseID)
}

// ListChallenges lists the ownership challenges issued for a domain.
func (s Service) ListChallenges(ctx context.Context, domainID string) ([]entities.OwnershipChallenge, error) {
	if _, err := s.Repo.GetDomain(ctx, domainID); err != nil {
		return nil, err
	}
	return s.Repo.ListChallenges(ctx, domainID)
}

func (s Service) appendAudit(ctx context.Context, enterpriseID, actingUserID, eventType string, metadata map[string]any) {
	id, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		id = ""
	}
	err = s.Audit.Append(ctx, events.AuditEvent{
		EventID:       id,
		EventType:     eventType,
		SourceService: moduleName,
		OccurredAtUTC: s.now(),
		EnterpriseIDs: []string{enterpriseID},
		ActingUserID:  actingUserID,
		Metadata:      metadata,
	})
	if err != nil {
		ResolveLogger(s.Logger).Warn("audit append failed",
			"event", "domain_audit_append_failed",
			"module", moduleName,
			"layer", "application",
			"event_type", eventType,
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
