package httpadapter

import (
	"context"
	"log/slog"

	"locker/contexts/enterprise-management/domain-service/application"
	"locker/contexts/enterprise-management/domain-service/domain/entities"
	httptransport "locker/contexts/enterprise-management/domain-service/transport/http"
)

// Handler maps HTTP DTOs to domain application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateDomainHandler(
	ctx context.Context,
	actorUserID string,
	enterpriseID string,
	request httptransport.CreateDomainRequest,
) (httptransport.CreateDomainResponse, error) {
	domain, challenges, err := h.Service.CreateDomain(ctx, actorUserID, enterpriseID, request.Domain)
	if err != nil {
		return httptransport.CreateDomainResponse{}, err
	}
	response := httptransport.CreateDomainResponse{Domain: domainResponse(domain)}
	for _, challenge := range challenges {
		response.Challenges = append(response.Challenges, challengeResponse(challenge))
	}
	return response, nil
}

func (h Handler) VerifyDomainHandler(
	ctx context.Context,
	actorUserID string,
	domainID string,
) (httptransport.DomainResponse, error) {
	domain, err := h.Service.VerifyDomain(ctx, actorUserID, domainID)
	if err != nil {
		return httptransport.DomainResponse{}, err
	}
	return domainResponse(domain), nil
}

func (h Handler) SetAutoApproveHandler(
	ctx context.Context,
	actorUserID string,
	domainID string,
	request httptransport.SetAutoApproveRequest,
) (httptransport.DomainResponse, error) {
	domain, err := h.Service.SetAutoApprove(ctx, actorUserID, domainID, request.AutoApprove)
	if err != nil {
		return httptransport.DomainResponse{}, err
	}
	return domainResponse(domain), nil
}

func (h Handler) DeleteDomainHandler(
	ctx context.Context,
	actorUserID string,
	domainID string,
) error {
	return h.Service.DeleteDomain(ctx, actorUserID, domainID)
}

func (h Handler) GetDomainHandler(
	ctx context.Context,
	domainID string,
) (httptransport.DomainResponse, error) {
	domain, err := h.Service.GetDomain(ctx, domainID)
	if err != nil {
		return httptransport.DomainResponse{}, err
	}
	return domainResponse(domain), nil
}

func (h Handler) ListDomainsHandler(
	ctx context.Context,
	enterpriseID string,
) (httptransport.ListDomainsResponse, error) {
	domains, err := h.Service.ListDomains(ctx, enterpriseID)
	if err != nil {
		return httptransport.ListDomainsResponse{}, err
	}
	response := httptransport.ListDomainsResponse{Domains: make([]httptransport.DomainResponse, 0, len(domains))}
	for _, domain := range domains {
		response.Domains = append(response.Domains, domainResponse(domain))
	}
	return response, nil
}

func (h Handler) ListChallengesHandler(
	ctx context.Context,
	domainID string,
) ([]httptransport.ChallengeResponse, error) {
	challenges, err := h.Service.ListChallenges(ctx, domainID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		items = append(items, challengeResponse(challenge))
	}
	return items, nil
}

func domainResponse(domain entities.Domain) httptransport.DomainResponse {
	return httptransport.DomainResponse{
		DomainID:     domain.DomainID,
		EnterpriseID: domain.EnterpriseID,
		Domain:       domain.Domain,
		RootDomain:   domain.RootDomain,
		Verification: domain.Verification,
		AutoApprove:  domain.AutoApprove,
		CreatedAt:    domain.CreatedAt,
		UpdatedAt:    domain.UpdatedAt,
	}
}

func challengeResponse(challenge entities.OwnershipChallenge) httptransport.ChallengeResponse {
	return httptransport.ChallengeResponse{
		OwnershipID: challenge.OwnershipID,
		RecordType:  challenge.RecordType,
		Key:         challenge.Key,
		Value:       challenge.Value,
		Verified:    challenge.Verified,
		VerifiedAt:  challenge.VerifiedAt,
	}
}
