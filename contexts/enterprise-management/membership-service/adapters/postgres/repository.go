package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainerrors "locker/contexts/enterprise-management/membership-service/domain/errors"
	"locker/contexts/enterprise-management/membership-service/domain/entities"
	"locker/contexts/enterprise-management/membership-service/ports"
)

const uniqueViolation = "23505"

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

func (r *Repository) CreateEnterprise(ctx context.Context, enterprise entities.Enterprise, primary entities.Member) (entities.Enterprise, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enterpriseFromEntity(enterprise)).Error; err != nil {
			return err
		}
		if err := tx.Create(memberFromEntity(primary)).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return entities.Enterprise{}, domainerrors.ErrMemberAlreadyExists
		}
		return entities.Enterprise{}, err
	}
	return enterprise, nil
}

func (r *Repository) GetEnterprise(ctx context.Context, enterpriseID string) (entities.Enterprise, error) {
	var row enterpriseModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ?", enterpriseID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Enterprise{}, domainerrors.ErrEnterpriseNotFound
		}
		return entities.Enterprise{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetMember(ctx context.Context, enterpriseID, memberID string) (entities.Member, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ? AND member_id = ?", enterpriseID, memberID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, domainerrors.ErrMemberNotFound
		}
		return entities.Member{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindMemberOfUser(ctx context.Context, enterpriseID, userID string) (entities.Member, bool, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ? AND user_id = ?", enterpriseID, userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, false, nil
		}
		return entities.Member{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindMemberByEmail(ctx context.Context, enterpriseID, email string) (entities.Member, bool, error) {
	var row memberModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ? AND user_id IS NULL AND email = ?", enterpriseID, strings.ToLower(strings.TrimSpace(email))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Member{}, false, nil
		}
		return entities.Member{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListMembers(ctx context.Context, enterpriseID string, filter ports.MemberFilter) ([]entities.Member, error) {
	tx := r.db.WithContext(ctx).Model(&memberModel{}).Where("enterprise_id = ?", enterpriseID)
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		tx = tx.Where("status IN ?", statuses)
	}
	if filter.DomainID != nil {
		tx = tx.Where("domain_id = ?", *filter.DomainID)
	}
	if filter.Activated != nil {
		tx = tx.Where("is_activated = ?", *filter.Activated)
	}

	var rows []memberModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListMembershipsOfUser(ctx context.Context, userID string) ([]entities.Member, error) {
	var rows []memberModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CountActivatedMembers(ctx context.Context, enterpriseID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&memberModel{}).
		Where("enterprise_id = ? AND status = ? AND is_activated", enterpriseID, string(entities.StatusConfirmed)).
		Count(&count).
		Error
	return int(count), err
}

func (r *Repository) InsertMember(ctx context.Context, member entities.Member) (entities.Member, error) {
	if err := r.db.WithContext(ctx).Create(memberFromEntity(member)).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Member{}, domainerrors.ErrMemberAlreadyExists
		}
		return entities.Member{}, err
	}
	return member, nil
}

func (r *Repository) SaveMember(ctx context.Context, member entities.Member) (entities.Member, error) {
	result := r.db.WithContext(ctx).
		Model(&memberModel{}).
		Where("member_id = ?", member.MemberID).
		Select("user_id", "email", "role", "status", "is_activated", "is_primary", "is_default", "domain_id", "invitation_token", "updated_at").
		Updates(memberFromEntity(member))
	if result.Error != nil {
		return entities.Member{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Member{}, domainerrors.ErrMemberNotFound
	}
	return member, nil
}

func (r *Repository) DeleteMember(ctx context.Context, enterpriseID, memberID string) error {
	result := r.db.WithContext(ctx).
		Where("enterprise_id = ? AND member_id = ?", enterpriseID, memberID).
		Delete(&memberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMemberNotFound
	}
	return nil
}

// IdempotencyStore implementation.

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Payload:     row.Payload,
		ExpiresAt:   row.ExpiresAt,
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	return r.db.WithContext(ctx).Create(idempotencyModel{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		Payload:     record.Payload,
		ExpiresAt:   record.ExpiresAt,
	}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
