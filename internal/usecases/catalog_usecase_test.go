package usecases

import (
	"testing"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	repomock "github.com/picelmedia/wabot-admin/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductCreateDefaults(t *testing.T) {
	products := new(repomock.ProductRepoMock)
	cache := newFakeCache()
	uc := NewProductUsecase(products, cache)
	ctx := tenantCtx()
	price := 49.5

	products.On("Create", ctx, mock.AnythingOfType("*entities.Product")).Return(nil)

	p, err := uc.Create(ctx, entities.ProductInput{Name: " Oud Perfume ", Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Oud Perfume", p.Name)
	assert.Equal(t, entities.DefaultCurrency, p.Currency)
	assert.Equal(t, 0, p.StockQuantity)
	assert.True(t, p.InStock)
	assert.Contains(t, cache.Invalidated(), interfaces.CacheDep(testClientID, entities.TableProducts))
	products.AssertExpectations(t)
}

func TestProductCreateValidation(t *testing.T) {
	uc := NewProductUsecase(new(repomock.ProductRepoMock), nil)
	ctx := tenantCtx()
	negative := -1.0

	_, err := uc.Create(ctx, entities.ProductInput{Name: "<br>"})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Create(ctx, entities.ProductInput{Name: "Tea", Price: &negative})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestProductUpdateBuildsColumns(t *testing.T) {
	products := new(repomock.ProductRepoMock)
	uc := NewProductUsecase(products, nil)
	ctx := tenantCtx()
	stock := 12
	inStock := false

	products.On("Update", ctx, "p-1", map[string]interface{}{
		"currency":       "USD",
		"stock_quantity": 12,
		"in_stock":       false,
	}).Return(nil)
	products.On("FindByID", ctx, "p-1").Return(&entities.Product{ID: "p-1", Currency: "USD"}, nil)

	p, err := uc.Update(ctx, "p-1", entities.ProductPatch{Currency: strPtr(" usd"), StockQuantity: &stock, InStock: &inStock})
	require.NoError(t, err)
	assert.Equal(t, "USD", p.Currency)

	_, err = uc.Update(ctx, "p-1", entities.ProductPatch{})
	assert.True(t, apperrors.IsBadRequestError(err))
	products.AssertExpectations(t)
}

func TestOrderCreateStartsPending(t *testing.T) {
	orders := new(repomock.OrderRepoMock)
	uc := NewOrderUsecase(orders, nil)
	fixed := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }
	ctx := tenantCtx()
	total := 120.0

	orders.On("Create", ctx, mock.AnythingOfType("*entities.Order")).Return(nil)
	o, err := uc.Create(ctx, entities.OrderInput{
		CustomerName:   "Sara",
		CustomerPhone:  "966500000001",
		ProductDetails: "2x Oud",
		TotalAmount:    &total,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.OrderPending, o.Status)
	assert.Equal(t, entities.DefaultCurrency, o.Currency)
	assert.Equal(t, fixed, o.LastUpdated)

	_, err = uc.Create(ctx, entities.OrderInput{CustomerName: "Sara"})
	assert.True(t, apperrors.IsValidationError(err))
	orders.AssertExpectations(t)
}

func TestOrderUpdateStatus(t *testing.T) {
	orders := new(repomock.OrderRepoMock)
	uc := NewOrderUsecase(orders, nil)
	ctx := tenantCtx()

	orders.On("UpdateStatus", ctx, "o-1", entities.OrderShipped, mock.AnythingOfType("time.Time")).Return(nil)
	require.NoError(t, uc.UpdateStatus(ctx, "o-1", entities.OrderShipped))

	err := uc.UpdateStatus(ctx, "o-1", entities.OrderStatus("shipped"))
	assert.True(t, apperrors.IsValidationError(err))

	orders.On("Delete", ctx, "missing").Return(apperrors.ErrNotFound)
	assert.True(t, apperrors.IsNotFoundError(uc.Delete(ctx, "missing")))
	orders.AssertExpectations(t)
}
