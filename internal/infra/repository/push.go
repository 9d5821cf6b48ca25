package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/infra/database/models"
)

type PushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// Upsert inserts the subscription or overwrites the row with the same
// (user_id, subscription_key).
func (r *PushSubscriptionRepository) Upsert(ctx context.Context, sub domain.PushSubscription) error {
	row := models.PushSubscription{
		UserID:          sub.UserID,
		SubscriptionKey: sub.Key,
		Subscription:    string(sub.Subscription),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "subscription_key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"subscription": row.Subscription,
			"mdate":        gorm.Expr("clock_timestamp()"),
		}),
	}).Create(&row).Error
}

func (r *PushSubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	var rows []models.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("cdate asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.PushSubscription, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.PushSubscription{
			UserID:       row.UserID,
			Subscription: json.RawMessage(row.Subscription),
			Key:          row.SubscriptionKey,
			CDate:        row.CDate,
			MDate:        row.MDate,
		})
	}
	return result, nil
}
