package repository

import (
	"context"
	"strings"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// List returns the tenant's leads, newest first, narrowed by filter.
func (r *LeadRepository) List(ctx context.Context, filter entities.LeadFilter) ([]entities.Lead, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}
	var leads []entities.Lead
	if err := q.Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, translateError(err, "list leads")
	}
	return leads, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entities.Lead, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var lead entities.Lead
	if err := q.Where("id = ?", id).First(&lead).Error; err != nil {
		return nil, translateError(err, "find lead")
	}
	return &lead, nil
}

func (r *LeadRepository) FindByPhone(ctx context.Context, phone string) (*entities.Lead, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var lead entities.Lead
	if err := q.Where("phone = ?", phone).First(&lead).Error; err != nil {
		return nil, translateError(err, "find lead by phone")
	}
	return &lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entities.Lead) error {
	if err := ownRow(ctx, &lead.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(lead).Error, "create lead")
}

// Update applies fields to one lead of the tenant.
func (r *LeadRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Model(&entities.Lead{}).Where("id = ?", id).Updates(fields), "update lead")
}

func (r *LeadRepository) CountByStatus(ctx context.Context, status entities.LeadStatus) (int64, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Model(&entities.Lead{}).Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, translateError(err, "count leads")
	}
	return n, nil
}

// Customer360 reads the customer_360 view, most recently contacted first.
func (r *LeadRepository) Customer360(ctx context.Context) ([]entities.Customer360, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var rows []entities.Customer360
	if err := q.Order("last_contact_at DESC NULLS LAST").Find(&rows).Error; err != nil {
		return nil, translateError(err, "customer 360")
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
