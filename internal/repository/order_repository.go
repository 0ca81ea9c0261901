package repository

import (
	"context"
	"time"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) List(ctx context.Context) ([]entities.Order, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var orders []entities.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, translateError(err, "list orders")
	}
	return orders, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *entities.Order) error {
	if err := ownRow(ctx, &order.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(order).Error, "create order")
}

// UpdateStatus sets the status and stamps last_updated.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, at time.Time) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	res := q.Model(&entities.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       status,
		"last_updated": at,
	})
	return requireAffected(res, "update order status")
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Where("id = ?", id).Delete(&entities.Order{}), "delete order")
}
