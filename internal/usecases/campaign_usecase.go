package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

const (
	MaxCampaignRecipients = 10
	campaignHistorySize   = 20
)

type CampaignUsecase struct {
	users         repository.UserRepo
	history       repository.CampaignRepo
	dispatcher    interfaces.CampaignDispatcher
	notifications *NotificationUsecase
	cache         interfaces.QueryCache
	now           func() time.Time
}

func NewCampaignUsecase(
	users repository.UserRepo,
	history repository.CampaignRepo,
	dispatcher interfaces.CampaignDispatcher,
	notifications *NotificationUsecase,
	cache interfaces.QueryCache,
) *CampaignUsecase {
	return &CampaignUsecase{
		users:         users,
		history:       history,
		dispatcher:    dispatcher,
		notifications: notifications,
		cache:         cache,
		now:           time.Now,
	}
}

// Send hands a campaign to the delivery webhook once. Upstream rejections
// come back as apperrors.ErrUpstream; anything else is returned unwrapped so
// callers can surface its message.
func (uc *CampaignUsecase) Send(ctx context.Context, userID string, req entities.CampaignRequest) (*entities.CampaignResult, error) {
	if err := checkCampaign(req); err != nil {
		observer.IncCampaign("rejected", len(req.Phones))
		return nil, err
	}

	log := logger.FromContext(ctx).With(zap.String("user_id", userID))
	clientID := uc.lookupClientID(ctx, userID)
	message := strings.TrimSpace(*req.Message)

	payload := entities.CampaignDispatch{
		Phones:   req.Phones,
		Message:  message,
		ClientID: clientID,
		UserID:   userID,
	}
	if err := uc.dispatcher.Dispatch(ctx, payload); err != nil {
		log.Error("Campaign dispatch failed", zap.Int("recipients", len(req.Phones)), zap.Error(err))
		uc.reportFailure(ctx, clientID, len(req.Phones))
		if errors.Is(err, apperrors.ErrUpstream) {
			observer.IncCampaign("upstream_error", len(req.Phones))
			return nil, apperrors.New(apperrors.ErrUpstream, "Failed to send campaign")
		}
		observer.IncCampaign("error", len(req.Phones))
		return nil, err
	}

	observer.IncCampaign("sent", len(req.Phones))
	log.Info("Campaign dispatched", zap.Int("recipients", len(req.Phones)))
	uc.record(ctx, clientID, req.Phones, message)
	return &entities.CampaignResult{Success: true, RecipientCount: len(req.Phones)}, nil
}

func checkCampaign(req entities.CampaignRequest) error {
	if len(req.Phones) == 0 {
		return apperrors.BadRequest("Invalid request - phones array required")
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		return apperrors.BadRequest("Invalid request - message required")
	}
	if len(req.Phones) > MaxCampaignRecipients {
		return apperrors.BadRequest("Maximum %d recipients allowed per campaign", MaxCampaignRecipients)
	}
	return nil
}

// History returns the tenant's latest campaigns.
func (uc *CampaignUsecase) History(ctx context.Context) ([]entities.CampaignHistory, error) {
	list, err := uc.history.Latest(ctx, campaignHistorySize)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(list), nil
}

// lookupClientID resolves the caller's tenant. Any failure is forwarded as a
// null client_id.
func (uc *CampaignUsecase) lookupClientID(ctx context.Context, userID string) *string {
	profile, err := uc.users.FindProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.FromContext(ctx).Warn("Campaign profile lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	if profile.ClientID == "" {
		return nil
	}
	id := profile.ClientID
	return &id
}

func (uc *CampaignUsecase) record(ctx context.Context, clientID *string, phones []string, message string) {
	if uc.history == nil {
		return
	}
	row := &entities.CampaignHistory{
		ClientID:       clientID,
		Phones:         append([]string(nil), phones...),
		MessageText:    message,
		RecipientCount: len(phones),
		CreatedAt:      uc.now().UTC(),
	}
	if err := uc.history.Create(ctx, row); err != nil {
		logger.FromContext(ctx).Warn("Campaign history not recorded", zap.Error(err))
		return
	}
	if clientID != nil {
		invalidate(tenant.WithClientID(ctx, *clientID), uc.cache, entities.TableCampaignHistory)
	}
}

func (uc *CampaignUsecase) reportFailure(ctx context.Context, clientID *string, recipients int) {
	if uc.notifications == nil || clientID == nil {
		return
	}
	title := "Campaign failed"
	message := fmt.Sprintf("A campaign to %d recipients could not be sent", recipients)
	kind := entities.NotificationCampaign
	link := "/campaigns"
	n := &entities.Notification{Title: &title, Message: &message, Type: &kind, Link: &link}
	if err := uc.notifications.Create(tenant.WithClientID(ctx, *clientID), n); err != nil {
		logger.FromContext(ctx).Warn("Campaign failure notification failed", zap.Error(err))
	}
}
