package repository

import (
	"context"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]entities.Product, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var products []entities.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, translateError(err, "list products")
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*entities.Product, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var p entities.Product
	if err := q.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateError(err, "find product")
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	if err := ownRow(ctx, &product.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(product).Error, "create product")
}

func (r *ProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Model(&entities.Product{}).Where("id = ?", id).Updates(fields), "update product")
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Where("id = ?", id).Delete(&entities.Product{}), "delete product")
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Model(&entities.Product{}).Count(&n).Error; err != nil {
		return 0, translateError(err, "count products")
	}
	return n, nil
}
