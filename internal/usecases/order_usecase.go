package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/repository"
)

type OrderUsecase struct {
	orders repository.OrderRepo
	cache  interfaces.QueryCache
	now    func() time.Time
}

func NewOrderUsecase(orders repository.OrderRepo, cache interfaces.QueryCache) *OrderUsecase {
	return &OrderUsecase{orders: orders, cache: cache, now: time.Now}
}

func (uc *OrderUsecase) List(ctx context.Context) ([]entities.Order, error) {
	orders, err := uc.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(orders), nil
}

// Create stores a new order. Status always starts as Pending.
func (uc *OrderUsecase) Create(ctx context.Context, in entities.OrderInput) (*entities.Order, error) {
	in.CustomerName = sanitize(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.ProductDetails = sanitize(in.ProductDetails)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	o := &entities.Order{
		CustomerName:    &in.CustomerName,
		CustomerPhone:   &in.CustomerPhone,
		ProductDetails:  &in.ProductDetails,
		TotalAmount:     in.TotalAmount,
		Currency:        in.Currency,
		ShippingAddress: sanitizePtr(in.ShippingAddress),
		Status:          entities.OrderPending,
		CreatedAt:       now,
		LastUpdated:     now,
	}
	if o.Currency == "" {
		o.Currency = entities.DefaultCurrency
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableOrders)
	return o, nil
}

func (uc *OrderUsecase) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus) error {
	if !status.Valid() {
		return apperrors.Validation("Invalid status")
	}
	if err := uc.orders.UpdateStatus(ctx, id, status, uc.now().UTC()); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, entities.TableOrders)
	return nil
}

func (uc *OrderUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, entities.TableOrders)
	return nil
}
