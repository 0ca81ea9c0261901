package usecases

import (
	"testing"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	repomock "github.com/picelmedia/wabot-admin/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestBotSettingsGetMissingIsNil(t *testing.T) {
	repo := new(repomock.BotSettingsRepoMock)
	uc := NewBotSettingsUsecase(repo, nil)
	ctx := tenantCtx()
	repo.On("Get", ctx).Return(nil, apperrors.ErrNotFound)

	s, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestBotSettingsUpdateInsertsDefaults(t *testing.T) {
	repo := new(repomock.BotSettingsRepoMock)
	uc := NewBotSettingsUsecase(repo, nil)
	ctx := tenantCtx()
	active := true

	var created *entities.BotSettings
	repo.On("Get", ctx).Return(nil, apperrors.ErrNotFound).Once()
	repo.On("Create", ctx, mock.AnythingOfType("*entities.BotSettings")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*entities.BotSettings) }).
		Return(nil)
	repo.On("Get", ctx).Return(&entities.BotSettings{ID: "s-new"}, nil).Once()

	got, err := uc.Update(ctx, entities.BotSettingsPatch{
		BotActive:          &active,
		BusinessHoursStart: strPtr("08:30"),
		HunterDays:         &[]string{"monday", "monday", "friday"},
	})
	require.NoError(t, err)
	assert.Equal(t, "s-new", got.ID)
	require.NotNil(t, created)
	assert.Equal(t, "user-1", created.UserID)
	assert.True(t, created.BotActive)
	assert.Equal(t, "08:30:00", *created.BusinessHoursStart)
	assert.Nil(t, created.BusinessHoursEnd)
	assert.Equal(t, datatypes.JSONSlice[string]{"monday", "friday"}, created.HunterDays)
	assert.Equal(t, entities.DefaultHunterStart, created.HunterStartTime)
	assert.Equal(t, entities.DefaultHunterEnd, created.HunterEndTime)
}

func TestBotSettingsUpdateExistingRow(t *testing.T) {
	repo := new(repomock.BotSettingsRepoMock)
	uc := NewBotSettingsUsecase(repo, nil)
	ctx := tenantCtx()
	row := &entities.BotSettings{ID: "s-1", BotActive: true}

	repo.On("Get", ctx).Return(row, nil)
	repo.On("Update", ctx, "s-1", map[string]interface{}{
		"business_hours_start": nil,
		"hunter_end_time":      "20:00:00",
	}).Return(nil)

	_, err := uc.Update(ctx, entities.BotSettingsPatch{
		BusinessHoursStart: strPtr(""),
		HunterEndTime:      strPtr("20:00:59"),
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	_, err = uc.Update(ctx, entities.BotSettingsPatch{HunterStartTime: strPtr("")})
	assert.True(t, apperrors.IsValidationError(err))

	_, err = uc.Update(ctx, entities.BotSettingsPatch{HunterDays: &[]string{"funday"}})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestToggleBotUpserts(t *testing.T) {
	repo := new(repomock.BotSettingsRepoMock)
	uc := NewBotSettingsUsecase(repo, nil)
	ctx := tenantCtx()
	row := &entities.BotSettings{ID: "s-1"}

	repo.On("Get", ctx).Return(row, nil)
	repo.On("Update", ctx, "s-1", map[string]interface{}{"bot_active": true}).Return(nil)

	_, err := uc.ToggleBot(ctx, true)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestWithinBusinessHours(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2026, 4, 1, h, m, 0, 0, time.UTC) }
	day := &entities.BotSettings{BusinessHoursStart: strPtr("09:00:00"), BusinessHoursEnd: strPtr("17:00:00")}
	night := &entities.BotSettings{BusinessHoursStart: strPtr("22:00:00"), BusinessHoursEnd: strPtr("06:00:00")}

	cases := []struct {
		name string
		s    *entities.BotSettings
		now  time.Time
		want bool
	}{
		{"nil settings", nil, at(3, 0), true},
		{"unset end", &entities.BotSettings{BusinessHoursStart: strPtr("09:00:00")}, at(3, 0), true},
		{"inside", day, at(9, 0), true},
		{"end exclusive", day, at(17, 0), false},
		{"before", day, at(8, 59), false},
		{"overnight late", night, at(23, 30), true},
		{"overnight early", night, at(5, 59), true},
		{"overnight midday", night, at(12, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WithinBusinessHours(tc.s, tc.now))
		})
	}
}
