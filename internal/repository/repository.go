package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"gorm.io/gorm"
)

// UserRepo stores logins, tenants and the profiles linking them.
type UserRepo interface {
	CreateAccount(ctx context.Context, user *entities.User, client *entities.Client, profile *entities.Profile) error
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindProfile(ctx context.Context, userID string) (*entities.Profile, error)
}

// MessageRepo stores chat turns of the tenant in ctx.
type MessageRepo interface {
	Create(ctx context.Context, msg *entities.Message) error
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]entities.Message, error)
	Contacts(ctx context.Context) ([]entities.InboxContact, error)
	Conversation(ctx context.Context, phone string) ([]entities.Message, error)
}

// LeadRepo stores leads of the tenant in ctx.
type LeadRepo interface {
	List(ctx context.Context, filter entities.LeadFilter) ([]entities.Lead, error)
	FindByID(ctx context.Context, id string) (*entities.Lead, error)
	FindByPhone(ctx context.Context, phone string) (*entities.Lead, error)
	Create(ctx context.Context, lead *entities.Lead) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	CountByStatus(ctx context.Context, status entities.LeadStatus) (int64, error)
	Customer360(ctx context.Context) ([]entities.Customer360, error)
}

// ProductRepo stores the catalog of the tenant in ctx.
type ProductRepo interface {
	List(ctx context.Context) ([]entities.Product, error)
	FindByID(ctx context.Context, id string) (*entities.Product, error)
	Create(ctx context.Context, product *entities.Product) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// OrderRepo stores orders of the tenant in ctx.
type OrderRepo interface {
	List(ctx context.Context) ([]entities.Order, error)
	Create(ctx context.Context, order *entities.Order) error
	UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// BotRuleRepo stores auto-reply rules of the tenant in ctx.
type BotRuleRepo interface {
	List(ctx context.Context) ([]entities.BotRule, error)
	ListActive(ctx context.Context, matchType entities.MatchType) ([]entities.BotRule, error)
	FindByID(ctx context.Context, id string) (*entities.BotRule, error)
	Create(ctx context.Context, rule *entities.BotRule) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// BotSettingsRepo stores the single settings row of the tenant in ctx.
type BotSettingsRepo interface {
	Get(ctx context.Context) (*entities.BotSettings, error)
	Create(ctx context.Context, settings *entities.BotSettings) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// NotificationRepo stores notifications of the tenant in ctx.
type NotificationRepo interface {
	Latest(ctx context.Context, limit int) ([]entities.Notification, error)
	Create(ctx context.Context, n *entities.Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) (int64, error)
}

// CampaignRepo stores campaign history.
type CampaignRepo interface {
	Create(ctx context.Context, c *entities.CampaignHistory) error
	Latest(ctx context.Context, limit int) ([]entities.CampaignHistory, error)
}

// scoped returns a query bound to ctx and filtered to its tenant.
func scoped(ctx context.Context, db *gorm.DB) (*gorm.DB, string, error) {
	clientID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return db.WithContext(ctx).Where("client_id = ?", clientID), clientID, nil
}

// ownRow stamps the tenant onto a new row, rejecting rows that name another tenant.
func ownRow(ctx context.Context, rowClientID *string) error {
	clientID, err := tenant.FromContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if *rowClientID == "" {
		*rowClientID = clientID
		return nil
	}
	if *rowClientID != clientID {
		return fmt.Errorf("%w: row client_id %s does not match tenant", apperrors.ErrBadRequest, *rowClientID)
	}
	return nil
}

// translateError maps gorm and Postgres errors onto apperrors sentinels.
func translateError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w: %s", op, apperrors.ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%s: %w: %s", op, apperrors.ErrBadRequest, pgErr.ConstraintName)
		case "23514", "22P02", "23502":
			return fmt.Errorf("%s: %w: %s", op, apperrors.ErrValidation, pgErr.Message)
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, apperrors.ErrDatabase, err)
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res *gorm.DB, op string) error {
	if res.Error != nil {
		return translateError(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return nil
}
