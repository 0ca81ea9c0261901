package usecases

import (
	"context"
	"errors"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

const recentMessagesSize = 5

// DashboardStats is the overview page payload.
type DashboardStats struct {
	MessagesCount  int64                 `json:"messages_count"`
	NewLeadsCount  int64                 `json:"new_leads_count"`
	ProductsCount  int64                 `json:"products_count"`
	BotSettings    *entities.BotSettings `json:"bot_settings"`
	RecentMessages []entities.Message    `json:"recent_messages"`
}

var dashboardTables = []string{
	entities.TableMessages,
	entities.TableLeads,
	entities.TableProducts,
	entities.TableBotSettings,
}

type DashboardUsecase struct {
	messages repository.MessageRepo
	leads    repository.LeadRepo
	products repository.ProductRepo
	settings repository.BotSettingsRepo
	cache    interfaces.QueryCache
}

func NewDashboardUsecase(
	messages repository.MessageRepo,
	leads repository.LeadRepo,
	products repository.ProductRepo,
	settings repository.BotSettingsRepo,
	cache interfaces.QueryCache,
) *DashboardUsecase {
	return &DashboardUsecase{
		messages: messages,
		leads:    leads,
		products: products,
		settings: settings,
		cache:    cache,
	}
}

// Stats returns the overview for the tenant in ctx, served from the query
// cache until one of its tables changes.
func (uc *DashboardUsecase) Stats(ctx context.Context) (*DashboardStats, error) {
	clientID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	key := "dashboard:" + clientID
	log := logger.FromContext(ctx)

	deps := make([]string, 0, len(dashboardTables))
	for _, t := range dashboardTables {
		deps = append(deps, interfaces.CacheDep(clientID, t))
	}
	var version string
	cacheable := uc.cache != nil

	if cacheable {
		var cached DashboardStats
		err := uc.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			log.Warn("Dashboard cache read failed", zap.Error(err))
		}
		if version, err = uc.cache.Version(ctx, deps...); err != nil {
			log.Warn("Dashboard cache version failed", zap.Error(err))
			cacheable = false
		}
	}

	stats, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := uc.cache.Set(ctx, key, stats, version, deps...); err != nil {
			log.Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (uc *DashboardUsecase) load(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.MessagesCount, err = uc.messages.Count(ctx); err != nil {
		return nil, err
	}
	if stats.NewLeadsCount, err = uc.leads.CountByStatus(ctx, entities.LeadNew); err != nil {
		return nil, err
	}
	if stats.ProductsCount, err = uc.products.Count(ctx); err != nil {
		return nil, err
	}
	settings, err := uc.settings.Get(ctx)
	switch {
	case err == nil:
		stats.BotSettings = settings
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}
	recent, err := uc.messages.Recent(ctx, recentMessagesSize)
	if err != nil {
		return nil, err
	}
	stats.RecentMessages = emptyIfNil(recent)
	return &stats, nil
}
