package usecases

import (
	"testing"
	"time"

	"github.com/picelmedia/wabot-admin/internal/entities"
	repomock "github.com/picelmedia/wabot-admin/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationListCountsUnread(t *testing.T) {
	repo := new(repomock.NotificationRepoMock)
	uc := NewNotificationUsecase(repo, nil)
	ctx := tenantCtx()

	repo.On("Latest", ctx, notificationFeedSize).Return([]entities.Notification{
		{ID: "1", IsRead: false},
		{ID: "2", IsRead: true},
		{ID: "3", IsRead: false},
	}, nil)

	feed, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 3)
	assert.Equal(t, 2, feed.UnreadCount)
}

func TestNotificationCreateForwards(t *testing.T) {
	repo := new(repomock.NotificationRepoMock)
	fwd := &fakeForwarder{ch: make(chan entities.Notification, 1)}
	uc := NewNotificationUsecase(repo, fwd)
	ctx := tenantCtx()

	n := &entities.Notification{ID: "n-1", Title: strPtr("<b>New lead</b>")}
	repo.On("Create", ctx, n).Return(nil)
	require.NoError(t, uc.Create(ctx, n))
	assert.Equal(t, "New lead", *n.Title)

	select {
	case got := <-fwd.ch:
		assert.Equal(t, "n-1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not forwarded")
	}
}

func TestNotificationMarkAllRead(t *testing.T) {
	repo := new(repomock.NotificationRepoMock)
	uc := NewNotificationUsecase(repo, nil)
	ctx := tenantCtx()
	repo.On("MarkAllRead", ctx).Return(int64(4), nil)

	n, err := uc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
