package httpadapter

import (
	"context"
	"log/slog"

	"locker/contexts/enterprise-management/membership-service/application"
	domainerrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	"locker/contexts/enterprise-management/membership-service/domain/entities"
	"locker/contexts/enterprise-management/membership-service/ports"
	httptransport "locker/contexts/enterprise-management/membership-service/transport/http"
)

// Handler maps HTTP DTOs to membership application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateEnterpriseHandler(
	ctx context.Context,
	actorUserID string,
	idempotencyKey string,
	request httptransport.CreateEnterpriseRequest,
) (httptransport.EnterpriseResponse, error) {
	enterprise, err := h.Service.CreateEnterprise(ctx, idempotencyKey, actorUserID, ports.CreateEnterpriseInput{
		Name:                 request.Name,
		Description:          request.Description,
		Email:                request.Email,
		Phone:                request.Phone,
		Country:              request.Country,
		Address:              request.Address,
		InitSeats:            request.InitSeats,
		InitSeatsExpiredTime: request.InitSeatsExpiredTime,
	})
	if err != nil {
		return httptransport.EnterpriseResponse{}, err
	}
	return httptransport.EnterpriseResponse{
		EnterpriseID: enterprise.EnterpriseID,
		Name:         enterprise.Name,
		Locked:       enterprise.Locked,
		InitSeats:    enterprise.InitSeats,
		CreatedAt:    enterprise.CreatedAt,
	}, nil
}

func (h Handler) CreateMemberHandler(
	ctx context.Context,
	actorUserID string,
	idempotencyKey string,
	enterpriseID string,
	request httptransport.CreateMemberRequest,
) (httptransport.MemberResponse, error) {
	status := entities.MemberStatus(request.Status)
	if request.Status == "" {
		status = entities.StatusInvited
	}
	member, err := h.Service.CreateMember(ctx, idempotencyKey, actorUserID, enterpriseID, ports.CreateMemberInput{
		UserID: request.UserID,
		Email:  request.Email,
		Role:   entities.MemberRole(request.Role),
		Status: status,
	})
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return memberResponse(member), nil
}

func (h Handler) UpdateMemberHandler(
	ctx context.Context,
	actorUserID string,
	idempotencyKey string,
	enterpriseID string,
	memberID string,
	request httptransport.UpdateMemberRequest,
) (httptransport.MemberResponse, error) {
	var input ports.UpdateMemberInput
	if request.Role != nil {
		role := entities.MemberRole(*request.Role)
		input.Role = &role
	}
	if request.Status != nil {
		status := entities.MemberStatus(*request.Status)
		input.Status = &status
	}
	member, err := h.Service.UpdateMember(ctx, idempotencyKey, actorUserID, enterpriseID, memberID, input)
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return memberResponse(member), nil
}

func (h Handler) SetActivatedHandler(
	ctx context.Context,
	actorUserID string,
	idempotencyKey string,
	enterpriseID string,
	memberID string,
	request httptransport.SetActivatedRequest,
) (httptransport.SetActivatedResponse, error) {
	member, billingRelevant, err := h.Service.SetActivated(ctx, idempotencyKey, actorUserID, enterpriseID, memberID, request.Activated)
	if err != nil {
		return httptransport.SetActivatedResponse{}, err
	}
	return httptransport.SetActivatedResponse{
		Member:          memberResponse(member),
		BillingRelevant: billingRelevant,
	}, nil
}

func (h Handler) ResolveInvitationHandler(
	ctx context.Context,
	actorUserID string,
	idempotencyKey string,
	enterpriseID string,
	memberID string,
	request httptransport.ResolveInvitationRequest,
) (httptransport.MemberResponse, error) {
	decision := application.InvitationDecision(request.Decision)
	member, err := h.Service.ResolveInvitation(ctx, idempotencyKey, actorUserID, enterpriseID, memberID, decision)
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return memberResponse(member), nil
}

func (h Handler) DeleteMemberHandler(
	ctx context.Context,
	actorUserID string,
	idempotencyKey string,
	enterpriseID string,
	memberID string,
) error {
	return h.Service.DeleteMember(ctx, idempotencyKey, actorUserID, enterpriseID, memberID)
}

func (h Handler) ClaimInvitationHandler(
	ctx context.Context,
	actorUserID string,
	request httptransport.ClaimInvitationRequest,
) (httptransport.MemberResponse, error) {
	member, err := h.Service.ClaimInvitation(ctx, request.Token, actorUserID)
	if err != nil {
		return httptransport.MemberResponse{}, err
	}
	return memberResponse(member), nil
}

func (h Handler) ListMembersHandler(
	ctx context.Context,
	enterpriseID string,
	statuses []string,
) (httptransport.ListMembersResponse, error) {
	var filter ports.MemberFilter
	for _, status := range statuses {
		parsed := entities.MemberStatus(status)
		if !parsed.Valid() {
			return httptransport.ListMembersResponse{}, domainerrors.ErrInvalidRequest
		}
		filter.Statuses = append(filter.Statuses, parsed)
	}
	members, err := h.Service.ListMembers(ctx, enterpriseID, filter)
	if err != nil {
		return httptransport.ListMembersResponse{}, err
	}
	response := httptransport.ListMembersResponse{Members: make([]httptransport.MemberResponse, 0, len(members))}
	for _, member := range members {
		response.Members = append(response.Members, memberResponse(member))
	}
	return response, nil
}

func memberResponse(member entities.Member) httptransport.MemberResponse {
	return httptransport.MemberResponse{
		MemberID:     member.MemberID,
		EnterpriseID: member.EnterpriseID,
		UserID:       member.UserID,
		Email:        member.Email,
		Role:         string(member.Role),
		Status:       string(member.Status),
		IsActivated:  member.IsActivated,
		IsPrimary:    member.IsPrimary,
		DomainID:     member.DomainID,
		UpdatedAt:    member.UpdatedAt,
	}
}
