package httptransport

import "time"

type CreateEnterpriseRequest struct {
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	Email                string     `json:"email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	Country              string     `json:"country,omitempty"`
	Address              string     `json:"address,omitempty"`
	InitSeats            int        `json:"init_seats,omitempty"`
	InitSeatsExpiredTime *time.Time `json:"init_seats_expired_time,omitempty"`
}

type EnterpriseResponse struct {
	EnterpriseID string    `json:"enterprise_id"`
	Name         string    `json:"name"`
	Locked       bool      `json:"locked"`
	InitSeats    int       `json:"init_seats"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateMemberRequest struct {
	UserID *string `json:"user_id,omitempty"`
	Email  string  `json:"email,omitempty"`
	Role   string  `json:"role"`
	Status string  `json:"status,omitempty"`
}

type UpdateMemberRequest struct {
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

type SetActivatedRequest struct {
	Activated bool `json:"activated"`
}

type ResolveInvitationRequest struct {
	Decision string `json:"decision"`
}

type ClaimInvitationRequest struct {
	Token string `json:"token"`
}

type MemberResponse struct {
	MemberID     string    `json:"member_id"`
	EnterpriseID string    `json:"enterprise_id"`
	UserID       *string   `json:"user_id,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	IsActivated  bool      `json:"is_activated"`
	IsPrimary    bool      `json:"is_primary"`
	DomainID     *string   `json:"domain_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SetActivatedResponse struct {
	Member          MemberResponse `json:"member"`
	BillingRelevant bool           `json:"billing_relevant"`
}

type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
