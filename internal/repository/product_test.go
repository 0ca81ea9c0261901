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

func TestProductRepository_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewProductRepository(db)

	rows := sqlmock.NewRows([]string{"id", "client_id", "name", "price", "currency", "stock_quantity", "in_stock", "created_at"}).
		AddRow("p-1", testClientID, "Oud Perfume", 120.0, "SAR", 4, true, time.Now())
	mock.ExpectQuery(q(`SELECT * FROM "products" WHERE client_id = $1 ORDER BY created_at DESC`)).
		WithArgs(testClientID).
		WillReturnRows(rows)

	products, err := repo.List(tenantCtx())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Oud Perfume", products[0].Name)
	assert.InDelta(t, 120.0, *products[0].Price, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(q(`INSERT INTO "products"`)).WillReturnResult(sqlmock.NewResult(0, 1))

	p := entities.NewFakeProduct("")
	p.ID = ""
	require.NoError(t, repo.Create(tenantCtx(), p))
	assert.Equal(t, testClientID, p.ClientID)
	assert.NotEmpty(t, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "products" WHERE client_id = $1 AND id = $2`)).
		WithArgs(testClientID, "p-404", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(tenantCtx(), "p-404")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(q(`UPDATE "products" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(tenantCtx(), "p-1", map[string]interface{}{"in_stock": false}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewProductRepository(db)

	mock.ExpectExec(q(`DELETE FROM "products" WHERE client_id = $1 AND id = $2`)).
		WithArgs(testClientID, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM "products"`)).
		WithArgs(testClientID, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(tenantCtx(), "p-1"))
	assert.ErrorIs(t, repo.Delete(tenantCtx(), "p-1"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Count(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery(q(`SELECT count(*) FROM "products" WHERE client_id = $1`)).
		WithArgs(testClientID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(tenantCtx())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
