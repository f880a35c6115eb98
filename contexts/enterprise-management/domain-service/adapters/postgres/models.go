package postgresadapter

import (
	"time"

	"locker/contexts/enterprise-management/domain-service/domain/entities"
)

type domainModel struct {
	DomainID       string `gorm:"primaryKey;column:domain_id"`
	EnterpriseID   string `gorm:"column:enterprise_id"`
	Domain         string `gorm:"column:domain"`
	RootDomain     string `gorm:"column:root_domain"`
	Verification   bool   `gorm:"column:verification"`
	AutoApprove    bool   `gorm:"column:auto_approve"`
	IsNotifyFailed bool   `gorm:"column:is_notify_failed"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (domainModel) TableName() string { return "enterprise_domains" }

func (m domainModel) toEntity() entities.Domain {
	return entities.Domain{
		DomainID:       m.DomainID,
		EnterpriseID:   m.EnterpriseID,
		Domain:         m.Domain,
		RootDomain:     m.RootDomain,
		Verification:   m.Verification,
		AutoApprove:    m.AutoApprove,
		IsNotifyFailed: m.IsNotifyFailed,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func domainFromEntity(domain entities.Domain) domainModel {
	return domainModel{
		DomainID:       domain.DomainID,
		EnterpriseID:   domain.EnterpriseID,
		Domain:         domain.Domain,
		RootDomain:     domain.RootDomain,
		Verification:   domain.Verification,
		AutoApprove:    domain.AutoApprove,
		IsNotifyFailed: domain.IsNotifyFailed,
		CreatedAt:      domain.CreatedAt,
		UpdatedAt:      domain.UpdatedAt,
	}
}

type ownershipModel struct {
	OwnershipID string `gorm:"primaryKey;column:ownership_id"`
	DomainID    string `gorm:"column:domain_id"`
	RecordType  string `gorm:"column:record_type"`
	Key         string `gorm:"column:key"`
	Value       string `gorm:"column:value"`
	Verified    bool   `gorm:"column:verified"`
	VerifiedAt  *time.Time
}

func (ownershipModel) TableName() string { return "domain_ownerships" }

func (m ownershipModel) toEntity() entities.OwnershipChallenge {
	return entities.OwnershipChallenge{
		OwnershipID: m.OwnershipID,
		DomainID:    m.DomainID,
		RecordType:  m.RecordType,
		Key:         m.Key,
		Value:       m.Value,
		Verified:    m.Verified,
		VerifiedAt:  m.VerifiedAt,
	}
}

func ownershipFromEntity(challenge entities.OwnershipChallenge) ownershipModel {
	return ownershipModel{
		OwnershipID: challenge.OwnershipID,
		DomainID:    challenge.DomainID,
		RecordType:  challenge.RecordType,
		Key:         challenge.Key,
		Value:       challenge.Value,
		Verified:    challenge.Verified,
		VerifiedAt:  challenge.VerifiedAt,
	}
}
