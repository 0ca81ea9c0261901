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

func TestBotRuleRepository_ListActive(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBotRuleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "client_id", "trigger_keyword", "response_text", "match_type", "is_active", "created_at"}).
		AddRow("r-1", testClientID, "price", "Prices start at 50 SAR", "contains", true, time.Now().Add(-time.Hour)).
		AddRow("r-2", testClientID, "hours", "We open at 9", "contains", true, time.Now())
	mock.ExpectQuery(q(`SELECT * FROM "bot_rules" WHERE client_id = $1 AND (is_active = $2 AND match_type = $3) ORDER BY created_at ASC`)).
		WithArgs(testClientID, true, entities.MatchContains).
		WillReturnRows(rows)

	rules, err := repo.ListActive(tenantCtx(), entities.MatchContains)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "r-1", rules[0].ID)
	assert.Equal(t, entities.MatchContains, rules[0].MatchType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBotRuleRepository_CreateAndDelete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBotRuleRepository(db)

	mock.ExpectExec(q(`INSERT INTO "bot_rules"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`DELETE FROM "bot_rules" WHERE client_id = $1 AND id = $2`)).
		WithArgs(testClientID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rule := &entities.BotRule{TriggerKeyword: "hi", ResponseText: "hello", MatchType: entities.MatchContains, IsActive: true}
	require.NoError(t, repo.Create(tenantCtx(), rule))
	require.NotEmpty(t, rule.ID)
	require.NoError(t, repo.Delete(tenantCtx(), rule.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBotRuleRepository_Update_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBotRuleRepository(db)

	mock.ExpectExec(q(`UPDATE "bot_rules" SET`)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(tenantCtx(), "r-404", map[string]interface{}{"is_active": false})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBotSettingsRepository_Get(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBotSettingsRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "client_id", "bot_active", "business_hours_start", "business_hours_end", "hunter_active", "hunter_days", "hunter_start_time", "hunter_end_time"}).
		AddRow("s-1", "u-1", testClientID, true, "09:00:00", "17:00:00", false, []byte(`["sunday","monday"]`), "09:00:00", "21:00:00")
	mock.ExpectQuery(q(`SELECT * FROM "bot_settings" WHERE client_id = $1 ORDER BY "bot_settings"."id" LIMIT $2`)).
		WithArgs(testClientID, 1).
		WillReturnRows(rows)

	s, err := repo.Get(tenantCtx())
	require.NoError(t, err)
	assert.True(t, s.BotActive)
	assert.Equal(t, "09:00:00", *s.BusinessHoursStart)
	assert.Equal(t, []string{"sunday", "monday"}, []string(s.HunterDays))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBotSettingsRepository_Get_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBotSettingsRepository(db)

	mock.ExpectQuery(q(`SELECT * FROM "bot_settings"`)).
		WithArgs(testClientID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(tenantCtx())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBotSettingsRepository_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBotSettingsRepository(db)

	mock.ExpectExec(q(`INSERT INTO "bot_settings"`)).WillReturnResult(sqlmock.NewResult(0, 1))

	s := &entities.BotSettings{
		UserID:          "u-1",
		HunterDays:      entities.DefaultHunterDays,
		HunterStartTime: entities.DefaultHunterStart,
		HunterEndTime:   entities.DefaultHunterEnd,
	}
	require.NoError(t, repo.Create(tenantCtx(), s))
	assert.Equal(t, testClientID, s.ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
