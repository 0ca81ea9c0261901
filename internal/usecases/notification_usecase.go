package usecases

import (
	"context"
	"time"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"github.com/picelmedia/wabot-admin/pkg/utils"
	"go.uber.org/zap"
)

// notificationFeedSize is how many notifications the header dropdown shows.
const notificationFeedSize = 10

type NotificationUsecase struct {
	repo      repository.NotificationRepo
	forwarder interfaces.NotificationForwarder
}

// NewNotificationUsecase builds the service; forwarder may be nil.
func NewNotificationUsecase(repo repository.NotificationRepo, forwarder interfaces.NotificationForwarder) *NotificationUsecase {
	return &NotificationUsecase{repo: repo, forwarder: forwarder}
}

// List returns the latest notifications and how many of them are unread.
func (uc *NotificationUsecase) List(ctx context.Context) (*entities.NotificationFeed, error) {
	list, err := uc.repo.Latest(ctx, notificationFeedSize)
	if err != nil {
		return nil, err
	}
	feed := &entities.NotificationFeed{Notifications: emptyIfNil(list)}
	for _, n := range list {
		if !n.IsRead {
			feed.UnreadCount++
		}
	}
	return feed, nil
}

func (uc *NotificationUsecase) MarkRead(ctx context.Context, id string) error {
	return uc.repo.MarkRead(ctx, id)
}

func (uc *NotificationUsecase) MarkAllRead(ctx context.Context) (int64, error) {
	return uc.repo.MarkAllRead(ctx)
}

// Create stores n for the tenant in ctx and forwards it in the background.
func (uc *NotificationUsecase) Create(ctx context.Context, n *entities.Notification) error {
	n.Title = sanitizePtr(n.Title)
	n.Message = sanitizePtr(n.Message)
	if err := uc.repo.Create(ctx, n); err != nil {
		return err
	}
	if uc.forwarder == nil {
		return nil
	}

	log := logger.FromContext(ctx)
	forwarded := *n
	utils.SafeGo(func() {
		fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.forwarder.Forward(fctx, forwarded); err != nil {
			log.Warn("Notification forward failed", zap.String("notification_id", forwarded.ID), zap.Error(err))
		}
	}, nil)
	return nil
}
