package repository

import (
	"context"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Latest(ctx context.Context, limit int) ([]entities.Notification, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var list []entities.Notification
	if err := q.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, translateError(err, "latest notifications")
	}
	return list, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	if err := ownRow(ctx, &n.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(n).Error, "create notification")
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Model(&entities.Notification{}).Where("id = ?", id).Update("is_read", true), "mark notification read")
}

// MarkAllRead flags every unread notification of the tenant and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return 0, err
	}
	res := q.Model(&entities.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	if res.Error != nil {
		return 0, translateError(res.Error, "mark all notifications read")
	}
	return res.RowsAffected, nil
}

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create stores a campaign record. ClientID may be nil when the sender has no profile.
func (r *CampaignRepository) Create(ctx context.Context, c *entities.CampaignHistory) error {
	return translateError(r.db.WithContext(ctx).Create(c).Error, "create campaign history")
}

func (r *CampaignRepository) Latest(ctx context.Context, limit int) ([]entities.CampaignHistory, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var list []entities.CampaignHistory
	if err := q.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, translateError(err, "latest campaigns")
	}
	return list, nil
}
