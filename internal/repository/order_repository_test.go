package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewOrderRepository(db)

	rows := sqlmock.NewRows([]string{"id", "client_id", "customer_name", "total_amount", "currency", "status", "created_at", "last_updated"}).
		AddRow("o-1", testClientID, "Sara", 99.5, "SAR", "Shipped", time.Now(), time.Now())
	mock.ExpectQuery(q(`SELECT * FROM "orders" WHERE client_id = $1 ORDER BY created_at DESC`)).
		WithArgs(testClientID).
		WillReturnRows(rows)

	orders, err := repo.List(tenantCtx())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entities.OrderShipped, orders[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(q(`INSERT INTO "orders"`)).WillReturnResult(sqlmock.NewResult(0, 1))

	o := entities.NewFakeOrder(testClientID)
	require.NoError(t, repo.Create(tenantCtx(), o))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(q(`UPDATE "orders" SET "last_updated"=$1,"status"=$2 WHERE client_id = $3 AND id = $4`)).
		WithArgs(sqlmock.AnyArg(), entities.OrderDelivered, testClientID, "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(tenantCtx(), "o-1", entities.OrderDelivered, time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(q(`UPDATE "orders" SET`)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(tenantCtx(), "missing", entities.OrderCancelled, time.Now())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(q(`DELETE FROM "orders" WHERE client_id = $1 AND id = $2`)).
		WithArgs(testClientID, "o-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(tenantCtx(), "o-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
