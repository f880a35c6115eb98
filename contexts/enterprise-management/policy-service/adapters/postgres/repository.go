package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "locker/contexts/enterprise-management/policy-service/domain/errors"
	"locker/contexts/enterprise-management/policy-service/domain/entities"
)

const uniqueViolation = "23505"

type policyModel struct {
	PolicyID     string `gorm:"primaryKey;column:policy_id"`
	EnterpriseID string
	Kind         string
	Enabled      bool
	Config       []byte `gorm:"type:jsonb"`
	UpdatedAt    time.Time
}

func (policyModel) TableName() string { return "enterprise_policies" }

func (m policyModel) toEntity() (entities.Policy, error) {
	policy := entities.Policy{
		PolicyID:     m.PolicyID,
		EnterpriseID: m.EnterpriseID,
		Kind:         entities.PolicyKind(m.Kind),
		Enabled:      m.Enabled,
		UpdatedAt:    m.UpdatedAt,
	}
	switch policy.Kind {
	case entities.KindPasswordRequirement, entities.KindMasterPasswordRequirement:
		var config entities.PasswordRequirementConfig
		if err := json.Unmarshal(m.Config, &config); err != nil {
			return entities.Policy{}, err
		}
		policy.PasswordRequirement = &config
	case entities.KindBlockFailedLogin:
		var config entities.BlockFailedLoginConfig
		if err := json.Unmarshal(m.Config, &config); err != nil {
			return entities.Policy{}, err
		}
		policy.BlockFailedLogin = &config
	case entities.KindPasswordless:
		var config entities.PasswordlessConfig
		if err := json.Unmarshal(m.Config, &config); err != nil {
			return entities.Policy{}, err
		}
		policy.Passwordless = &config
	case entities.KindTwoFactor:
		var config entities.TwoFactorConfig
		if err := json.Unmarshal(m.Config, &config); err != nil {
			return entities.Policy{}, err
		}
		policy.TwoFactor = &config
	}
	return policy, nil
}

func policyFromEntity(policy entities.Policy) (policyModel, error) {
	var config any
	switch policy.Kind {
	case entities.KindPasswordRequirement, entities.KindMasterPasswordRequirement:
		config = policy.PasswordRequirement
	case entities.KindBlockFailedLogin:
		config = policy.BlockFailedLogin
	case entities.KindPasswordless:
		config = policy.Passwordless
	case entities.KindTwoFactor:
		config = policy.TwoFactor
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return policyModel{}, err
	}
	return policyModel{
		PolicyID:     policy.PolicyID,
		EnterpriseID: policy.EnterpriseID,
		Kind:         string(policy.Kind),
		Enabled:      policy.Enabled,
		Config:       raw,
		UpdatedAt:    policy.UpdatedAt,
	}, nil
}

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) ListPolicies(ctx context.Context, enterpriseID string) ([]entities.Policy, error) {
	var rows []policyModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ?", enterpriseID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Policy, 0, len(rows))
	for _, row := range rows {
		policy, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, policy)
	}
	return items, nil
}

func (r *Repository) GetPolicy(ctx context.Context, enterpriseID string, kind entities.PolicyKind) (entities.Policy, error) {
	var row policyModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ? AND kind = ?", enterpriseID, string(kind)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Policy{}, domainerrors.ErrPolicyNotFound
		}
		return entities.Policy{}, err
	}
	return row.toEntity()
}

func (r *Repository) InsertPolicy(ctx context.Context, policy entities.Policy) (entities.Policy, error) {
	row, err := policyFromEntity(policy)
	if err != nil {
		return entities.Policy{}, err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// Lazy creation raced with another request; the stored row wins.
			return r.GetPolicy(ctx, policy.EnterpriseID, policy.Kind)
		}
		return entities.Policy{}, err
	}
	return policy, nil
}

func (r *Repository) SavePolicy(ctx context.Context, policy entities.Policy) (entities.Policy, error) {
	row, err := policyFromEntity(policy)
	if err != nil {
		return entities.Policy{}, err
	}
	result := r.db.WithContext(ctx).
		Model(&policyModel{}).
		Where("policy_id = ?", policy.PolicyID).
		Updates(map[string]any{
			"enabled":    row.Enabled,
			"config":     row.Config,
			"updated_at": row.UpdatedAt,
		})
	if result.Error != nil {
		return entities.Policy{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Policy{}, domainerrors.ErrPolicyNotFound
	}
	return policy, nil
}
