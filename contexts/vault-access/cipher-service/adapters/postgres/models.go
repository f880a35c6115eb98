package postgresadapter

import (
	"time"

	"locker/contexts/vault-access/cipher-service/domain/entities"
)

type teamModel struct {
	TeamID        string `gorm:"primaryKey;column:team_id"`
	Name          string `gorm:"column:name"`
	PersonalShare bool   `gorm:"column:personal_share"`
	Locked        bool   `gorm:"column:locked"`
	CreatedAt     time.Time
}

func (teamModel) TableName() string { return "teams" }

func (m teamModel) toEntity() entities.Team {
	return entities.Team{
		TeamID:        m.TeamID,
		Name:          m.Name,
		PersonalShare: m.PersonalShare,
		Locked:        m.Locked,
		CreatedAt:     m.CreatedAt,
	}
}

type teamMemberModel struct {
	TeamMemberID string `gorm:"primaryKey;column:team_member_id"`
	TeamID       string `gorm:"column:team_id"`
	UserID       string `gorm:"column:user_id"`
	Role         string `gorm:"column:role"`
	Status       string `gorm:"column:status"`
}

func (teamMemberModel) TableName() string { return "team_members" }

func (m teamMemberModel) toEntity() entities.TeamMember {
	return entities.TeamMember{
		TeamMemberID: m.TeamMemberID,
		TeamID:       m.TeamID,
		UserID:       m.UserID,
		Role:         entities.TeamRole(m.Role),
		Status:       entities.TeamMemberStatus(m.Status),
	}
}

type collectionMemberModel struct {
	CollectionID  string `gorm:"primaryKey;column:collection_id"`
	TeamMemberID  string `gorm:"primaryKey;column:team_member_id"`
	ReadOnly      bool   `gorm:"column:read_only"`
	HidePasswords bool   `gorm:"column:hide_passwords"`
}

func (collectionMemberModel) TableName() string { return "collection_members" }

func (m collectionMemberModel) toEntity() entities.CollectionAccess {
	return entities.CollectionAccess{
		CollectionID:  m.CollectionID,
		TeamMemberID:  m.TeamMemberID,
		ReadOnly:      m.ReadOnly,
		HidePasswords: m.HidePasswords,
	}
}

type groupModel struct {
	GroupID   string `gorm:"primaryKey;column:group_id"`
	TeamID    string `gorm:"column:team_id"`
	Name      string `gorm:"column:name"`
	Role      string `gorm:"column:role"`
	CreatedAt time.Time
}

func (groupModel) TableName() string { return "groups" }

func (m groupModel) toEntity() entities.Group {
	return entities.Group{
		GroupID:   m.GroupID,
		TeamID:    m.TeamID,
		Name:      m.Name,
		Role:      entities.TeamRole(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

type groupMemberModel struct {
	GroupID string `gorm:"primaryKey;column:group_id"`
	UserID  string `gorm:"primaryKey;column:user_id"`
}

func (groupMemberModel) TableName() string { return "group_members" }

type cipherModel struct {
	CipherID  string  `gorm:"primaryKey;column:cipher_id"`
	UserID    *string `gorm:"column:user_id"`
	TeamID    *string `gorm:"column:team_id"`
	Kind      string  `gorm:"column:kind"`
	Data      []byte  `gorm:"column:data"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (cipherModel) TableName() string { return "ciphers" }

func (m cipherModel) toEntity() entities.Cipher {
	return entities.Cipher{
		CipherID:  m.CipherID,
		UserID:    m.UserID,
		TeamID:    m.TeamID,
		Kind:      m.Kind,
		Data:      m.Data,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type cipherCollectionModel struct {
	CipherID     string `gorm:"primaryKey;column:cipher_id"`
	CollectionID string `gorm:"primaryKey;column:collection_id"`
}

func (cipherCollectionModel) TableName() string { return "cipher_collections" }
