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

type ProductUsecase struct {
	products repository.ProductRepo
	cache    interfaces.QueryCache
	now      func() time.Time
}

func NewProductUsecase(products repository.ProductRepo, cache interfaces.QueryCache) *ProductUsecase {
	return &ProductUsecase{products: products, cache: cache, now: time.Now}
}

func (uc *ProductUsecase) List(ctx context.Context) ([]entities.Product, error) {
	products, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(products), nil
}

func (uc *ProductUsecase) Create(ctx context.Context, in entities.ProductInput) (*entities.Product, error) {
	in.Name = sanitize(in.Name)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	p := &entities.Product{
		Name:        in.Name,
		Description: sanitizePtr(in.Description),
		Price:       in.Price,
		Currency:    in.Currency,
		BotNotes:    sanitizePtr(in.BotNotes),
		ImageURL:    in.ImageURL,
		InStock:     true,
		CreatedAt:   uc.now().UTC(),
	}
	if p.Currency == "" {
		p.Currency = entities.DefaultCurrency
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}

	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableProducts)
	return p, nil
}

func (uc *ProductUsecase) Update(ctx context.Context, id string, patch entities.ProductPatch) (*entities.Product, error) {
	if patch.Name != nil {
		name := sanitize(*patch.Name)
		patch.Name = &name
	}
	if patch.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*patch.Currency))
		patch.Currency = &cur
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = sanitize(*patch.Description)
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Currency != nil {
		fields["currency"] = *patch.Currency
	}
	if patch.StockQuantity != nil {
		fields["stock_quantity"] = *patch.StockQuantity
	}
	if patch.BotNotes != nil {
		fields["bot_notes"] = sanitize(*patch.BotNotes)
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if patch.InStock != nil {
		fields["in_stock"] = *patch.InStock
	}
	if len(fields) == 0 {
		return nil, apperrors.BadRequest("no fields to update")
	}

	if err := uc.products.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableProducts)
	return uc.products.FindByID(ctx, id)
}

func (uc *ProductUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, entities.TableProducts)
	return nil
}
