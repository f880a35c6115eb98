package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"locker/contexts/finance-core/seat-billing-service/domain/entities"
	domainerrors "locker/contexts/finance-core/seat-billing-service/domain/errors"
)

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

func (r *Repository) GetSubscription(ctx context.Context, subscriptionID string) (entities.Subscription, error) {
	var row subscriptionModel
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Subscription{}, domainerrors.ErrSubscriptionNotFound
		}
		return entities.Subscription{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindSubscriptionOfEnterprise(ctx context.Context, enterpriseID string) (entities.Subscription, bool, error) {
	var row subscriptionModel
	err := r.db.WithContext(ctx).
		Where("enterprise_id = ?", enterpriseID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Subscription{}, false, nil
		}
		return entities.Subscription{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListSubscriptions(ctx context.Context) ([]entities.Subscription, error) {
	var rows []subscriptionModel
	if err := r.db.WithContext(ctx).Order("subscription_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Subscription, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListExhaustedSubscriptions(ctx context.Context, maxAttempts int) ([]entities.Subscription, error) {
	var rows []subscriptionModel
	err := r.db.WithContext(ctx).
		Where("attempts >= ?", maxAttempts).
		Order("subscription_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Subscription, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveSubscription(ctx context.Context, subscription entities.Subscription) (entities.Subscription, error) {
	// The watermark column advances only through AdvanceBillingWatermark.
	result := r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("subscription_id = ?", subscription.SubscriptionID).
		Select("plan_id", "quantity", "period_start", "period_end", "attempts").
		Updates(subscriptionFromEntity(subscription))
	if result.Error != nil {
		return entities.Subscription{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Subscription{}, domainerrors.ErrSubscriptionNotFound
	}
	return subscription, nil
}

func (r *Repository) AdvanceBillingWatermark(ctx context.Context, subscriptionID string, expected, next time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("subscription_id = ? AND member_billing_updated_time = ?", subscriptionID, expected).
		Update("member_billing_updated_time", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) IncrementAttempts(ctx context.Context, subscriptionID string) (int, error) {
	err := r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("subscription_id = ?", subscriptionID).
		Update("attempts", gorm.Expr("attempts + 1")).
		Error
	if err != nil {
		return 0, err
	}
	var row subscriptionModel
	err = r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domainerrors.ErrSubscriptionNotFound
		}
		return 0, err
	}
	return row.Attempts, nil
}

func (r *Repository) ResetAttempts(ctx context.Context, subscriptionID string) error {
	return r.db.WithContext(ctx).
		Model(&subscriptionModel{}).
		Where("subscription_id = ?", subscriptionID).
		Update("attempts", 0).
		Error
}

func (r *Repository) InsertSeatChange(ctx context.Context, event entities.SeatChangeEvent) error {
	return r.db.WithContext(ctx).Create(seatChangeFromEntity(event)).Error
}

func (r *Repository) SumSeatChanges(ctx context.Context, enterpriseID string, after, until time.Time) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&seatChangeModel{}).
		Select("SUM(change)").
		Where("enterprise_id = ? AND occurred_at > ? AND occurred_at <= ?", enterpriseID, after, until).
		Scan(&total).
		Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
