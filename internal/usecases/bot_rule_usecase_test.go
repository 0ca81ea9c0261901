package usecases

import (
	"testing"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	repomock "github.com/picelmedia/wabot-admin/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBotRuleCreateDefaultsActive(t *testing.T) {
	rules := new(repomock.BotRuleRepoMock)
	uc := NewBotRuleUsecase(rules, nil)
	ctx := tenantCtx()

	rules.On("Create", ctx, mock.AnythingOfType("*entities.BotRule")).Return(nil)
	rule, err := uc.Create(ctx, entities.BotRuleInput{
		TriggerKeyword: "price",
		ResponseText:   "Our prices start at 50 SAR",
		MatchType:      entities.MatchContains,
	})
	require.NoError(t, err)
	assert.True(t, rule.IsActive)

	off := false
	rule, err = uc.Create(ctx, entities.BotRuleInput{
		TriggerKeyword: "shipping",
		ResponseText:   "Shipping takes 3 days",
		MatchType:      entities.MatchAIKnowledge,
		IsActive:       &off,
	})
	require.NoError(t, err)
	assert.False(t, rule.IsActive)

	_, err = uc.Create(ctx, entities.BotRuleInput{TriggerKeyword: "x", ResponseText: "y", MatchType: "regex"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestBotRuleToggle(t *testing.T) {
	rules := new(repomock.BotRuleRepoMock)
	uc := NewBotRuleUsecase(rules, nil)
	ctx := tenantCtx()

	rules.On("Update", ctx, "r-1", map[string]interface{}{"is_active": false}).Return(nil)
	require.NoError(t, uc.Toggle(ctx, "r-1", false))
	rules.AssertExpectations(t)
}

func TestBotRuleMatch(t *testing.T) {
	rules := new(repomock.BotRuleRepoMock)
	uc := NewBotRuleUsecase(rules, nil)
	ctx := tenantCtx()

	rules.On("ListActive", ctx, entities.MatchContains).Return([]entities.BotRule{
		{ID: "old", TriggerKeyword: "Price", ResponseText: "first"},
		{ID: "new", TriggerKeyword: "price list", ResponseText: "second"},
		{ID: "blank", TriggerKeyword: " ", ResponseText: "never"},
	}, nil)

	rule, err := uc.Match(ctx, "Can I see the PRICE list?")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, "old", rule.ID)

	rule, err = uc.Match(ctx, "hello")
	require.NoError(t, err)
	assert.Nil(t, rule)

	rule, err = uc.Match(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, rule)
}
