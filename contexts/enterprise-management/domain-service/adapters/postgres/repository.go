package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"locker/contexts/enterprise-management/domain-service/domain/entities"
	domainerrors "locker/contexts/enterprise-management/domain-service/domain/errors"
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

func (r *Repository) GetDomain(ctx context.Context, domainID string) (entities.Domain, error) {
	var row domainModel
	err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Domain{}, domainerrors.ErrDomainNotFound
		}
		return entities.Domain{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindDomainByName(ctx context.Context, enterpriseID, domain string) (entities.Domain, bool, error) {
	var row domainModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ? AND domain = ?", enterpriseID, domain).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Domain{}, false, nil
		}
		return entities.Domain{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListDomains(ctx context.Context, enterpriseID string) ([]entities.Domain, error) {
	var rows []domainModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ?", enterpriseID).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return domainsToEntities(rows), nil
}

func (r *Repository) ListUnverifiedDomains(ctx context.Context) ([]entities.Domain, error) {
	var rows []domainModel
	err := r.db.WithContext(ctx).
		Where("NOT verification").
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return domainsToEntities(rows), nil
}

func (r *Repository) ListVerifiedAutoApproveDomains(ctx context.Context) ([]entities.Domain, error) {
	var rows []domainModel
	err := r.db.WithContext(ctx).
		Where("verification AND auto_approve").
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return domainsToEntities(rows), nil
}

func (r *Repository) RootDomainVerifiedBy(ctx context.Context, rootDomain string) (string, bool, error) {
	var row domainModel
	err := r.db.WithContext(ctx).
		Where("root_domain = ? AND verification", rootDomain).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.EnterpriseID, true, nil
}

func (r *Repository) RootDomainVerifiedInEnterprise(ctx context.Context, enterpriseID, rootDomain string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domainModel{}).
		Where("enterprise_id = ? AND root_domain = ? AND verification", enterpriseID, rootDomain).
		Count(&count).
		Error
	return count > 0, err
}

func (r *Repository) InsertDomain(ctx context.Context, domain entities.Domain, challenges []entities.OwnershipChallenge) (entities.Domain, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(domainFromEntity(domain)).Error; err != nil {
			return err
		}
		for _, challenge := range challenges {
			if err := tx.Create(ownershipFromEntity(challenge)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return entities.Domain{}, domainerrors.ErrDomainAlreadyExists
		}
		return entities.Domain{}, err
	}
	return domain, nil
}

func (r *Repository) SaveDomain(ctx context.Context, domain entities.Domain) (entities.Domain, error) {
	result := r.db.WithContext(ctx).
		Model(&domainModel{}).
		Where("domain_id = ?", domain.DomainID).
		Select("verification", "auto_approve", "is_notify_failed", "updated_at").
		Updates(domainFromEntity(domain))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return entities.Domain{}, domainerrors.ErrDomainVerifiedByOther
		}
		return entities.Domain{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Domain{}, domainerrors.ErrDomainNotFound
	}
	return domain, nil
}

func (r *Repository) DeleteDomain(ctx context.Context, domainID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("domain_id = ?", domainID).Delete(&ownershipModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("domain_id = ?", domainID).Delete(&domainModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrDomainNotFound
		}
		return nil
	})
}

func (r *Repository) ListChallenges(ctx context.Context, domainID string) ([]entities.OwnershipChallenge, error) {
	var rows []ownershipModel
	err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.OwnershipChallenge, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkChallengeVerified(ctx context.Context, ownershipID string, verifiedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&ownershipModel{}).
		Where("ownership_id = ?", ownershipID).
		Updates(map[string]any{"verified": true, "verified_at": verifiedAt})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDomainNotFound
	}
	return nil
}

func domainsToEntities(rows []domainModel) []entities.Domain {
	items := make([]entities.Domain, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
