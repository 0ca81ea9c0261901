package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Latest(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewNotificationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "client_id", "title", "is_read", "created_at"}).
		AddRow("n-1", testClientID, "New lead", false, time.Now())
	mock.ExpectQuery(q(`SELECT * FROM "notifications" WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs(testClientID, 20).
		WillReturnRows(rows)

	list, err := repo.Latest(tenantCtx(), 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec(q(`UPDATE "notifications" SET "is_read"=$1 WHERE client_id = $2 AND id = $3`)).
		WithArgs(true, testClientID, "n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`UPDATE "notifications" SET "is_read"=$1`)).
		WithArgs(true, testClientID, "n-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.MarkRead(tenantCtx(), "n-1"))
	assert.ErrorIs(t, repo.MarkRead(tenantCtx(), "n-404"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectExec(q(`UPDATE "notifications" SET "is_read"=$1 WHERE client_id = $2 AND is_read = $3`)).
		WithArgs(true, testClientID, false).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.MarkAllRead(tenantCtx())
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Create_WithoutTenant(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCampaignRepository(db)

	mock.ExpectExec(q(`INSERT INTO "campaign_history"`)).WillReturnResult(sqlmock.NewResult(0, 1))

	c := &entities.CampaignHistory{Phones: []string{"966500000001"}, MessageText: "Sale today", RecipientCount: 1}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.NotEmpty(t, c.ID)
	assert.Nil(t, c.ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCampaignRepository_Latest(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewCampaignRepository(db)

	rows := sqlmock.NewRows([]string{"id", "client_id", "phones", "message_text", "recipient_count", "created_at"}).
		AddRow("c-1", testClientID, []byte(`["966500000001","966500000002"]`), "Sale", 2, time.Now())
	mock.ExpectQuery(q(`SELECT * FROM "campaign_history" WHERE client_id = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs(testClientID, 10).
		WillReturnRows(rows)

	list, err := repo.Latest(tenantCtx(), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Phones, 2)
	assert.Equal(t, 2, list[0].RecipientCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
