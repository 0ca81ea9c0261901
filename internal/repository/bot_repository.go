package repository

import (
	"context"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type BotRuleRepository struct {
	db *gorm.DB
}

func NewBotRuleRepository(db *gorm.DB) *BotRuleRepository {
	return &BotRuleRepository{db: db}
}

func (r *BotRuleRepository) List(ctx context.Context) ([]entities.BotRule, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var rules []entities.BotRule
	if err := q.Order("created_at DESC").Find(&rules).Error; err != nil {
		return nil, translateError(err, "list bot rules")
	}
	return rules, nil
}

// ListActive returns active rules of one match type, oldest first so earlier
// rules take precedence.
func (r *BotRuleRepository) ListActive(ctx context.Context, matchType entities.MatchType) ([]entities.BotRule, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var rules []entities.BotRule
	err = q.Where("is_active = ? AND match_type = ?", true, matchType).Order("created_at ASC").Find(&rules).Error
	if err != nil {
		return nil, translateError(err, "list active bot rules")
	}
	return rules, nil
}

func (r *BotRuleRepository) FindByID(ctx context.Context, id string) (*entities.BotRule, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var rule entities.BotRule
	if err := q.Where("id = ?", id).First(&rule).Error; err != nil {
		return nil, translateError(err, "find bot rule")
	}
	return &rule, nil
}

func (r *BotRuleRepository) Create(ctx context.Context, rule *entities.BotRule) error {
	if err := ownRow(ctx, &rule.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(rule).Error, "create bot rule")
}

func (r *BotRuleRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Model(&entities.BotRule{}).Where("id = ?", id).Updates(fields), "update bot rule")
}

func (r *BotRuleRepository) Delete(ctx context.Context, id string) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Where("id = ?", id).Delete(&entities.BotRule{}), "delete bot rule")
}

type BotSettingsRepository struct {
	db *gorm.DB
}

func NewBotSettingsRepository(db *gorm.DB) *BotSettingsRepository {
	return &BotSettingsRepository{db: db}
}

// Get returns the tenant's settings row or apperrors.ErrNotFound.
func (r *BotSettingsRepository) Get(ctx context.Context) (*entities.BotSettings, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var s entities.BotSettings
	if err := q.First(&s).Error; err != nil {
		return nil, translateError(err, "get bot settings")
	}
	return &s, nil
}

func (r *BotSettingsRepository) Create(ctx context.Context, settings *entities.BotSettings) error {
	if err := ownRow(ctx, &settings.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(settings).Error, "create bot settings")
}

func (r *BotSettingsRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return err
	}
	return requireAffected(q.Model(&entities.BotSettings{}).Where("id = ?", id).Updates(fields), "update bot settings")
}
