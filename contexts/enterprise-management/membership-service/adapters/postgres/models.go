package postgresadapter

import (
	"time"

	"locker/contexts/enterprise-management/membership-service/domain/entities"
)

type enterpriseModel struct {
	EnterpriseID         string `gorm:"primaryKey;column:enterprise_id"`
	Name                 string
	Description          string
	Email                string
	Phone                string
	Country              string
	Address              string
	Locked               bool
	InitSeats            int
	InitSeatsExpiredTime *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (enterpriseModel) TableName() string { return "enterprises" }

func (m enterpriseModel) toEntity() entities.Enterprise {
	return entities.Enterprise{
		EnterpriseID:         m.EnterpriseID,
		Name:                 m.Name,
		Description:          m.Description,
		Email:                m.Email,
		Phone:                m.Phone,
		Country:              m.Country,
		Address:              m.Address,
		Locked:               m.Locked,
		InitSeats:            m.InitSeats,
		InitSeatsExpiredTime: m.InitSeatsExpiredTime,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func enterpriseFromEntity(e entities.Enterprise) enterpriseModel {
	return enterpriseModel{
		EnterpriseID:         e.EnterpriseID,
		Name:                 e.Name,
		Description:          e.Description,
		Email:                e.Email,
		Phone:                e.Phone,
		Country:              e.Country,
		Address:              e.Address,
		Locked:               e.Locked,
		InitSeats:            e.InitSeats,
		InitSeatsExpiredTime: e.InitSeatsExpiredTime,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

type memberModel struct {
	MemberID        string `gorm:"primaryKey;column:member_id"`
	EnterpriseID    string
	UserID          *string
	Email           string
	Role            string
	Status          string
	IsActivated     bool
	IsPrimary       bool
	IsDefault       bool
	DomainID        *string
	InvitationToken string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (memberModel) TableName() string { return "enterprise_members" }

func (m memberModel) toEntity() entities.Member {
	return entities.Member{
		MemberID:        m.MemberID,
		EnterpriseID:    m.EnterpriseID,
		UserID:          m.UserID,
		Email:           m.Email,
		Role:            entities.MemberRole(m.Role),
		Status:          entities.MemberStatus(m.Status),
		IsActivated:     m.IsActivated,
		IsPrimary:       m.IsPrimary,
		IsDefault:       m.IsDefault,
		DomainID:        m.DomainID,
		InvitationToken: m.InvitationToken,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func memberFromEntity(e entities.Member) memberModel {
	return memberModel{
		MemberID:        e.MemberID,
		EnterpriseID:    e.EnterpriseID,
		UserID:          e.UserID,
		Email:           e.Email,
		Role:            string(e.Role),
		Status:          string(e.Status),
		IsActivated:     e.IsActivated,
		IsPrimary:       e.IsPrimary,
		IsDefault:       e.IsDefault,
		DomainID:        e.DomainID,
		InvitationToken: e.InvitationToken,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

type idempotencyModel struct {
	Key         string `gorm:"primaryKey;column:key"`
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

func (idempotencyModel) TableName() string { return "idempotency_records" }
