package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/repository"
)

type BotRuleUsecase struct {
	rules repository.BotRuleRepo
	cache interfaces.QueryCache
	now   func() time.Time
}

func NewBotRuleUsecase(rules repository.BotRuleRepo, cache interfaces.QueryCache) *BotRuleUsecase {
	return &BotRuleUsecase{rules: rules, cache: cache, now: time.Now}
}

func (uc *BotRuleUsecase) List(ctx context.Context) ([]entities.BotRule, error) {
	rules, err := uc.rules.List(ctx)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(rules), nil
}

func (uc *BotRuleUsecase) Create(ctx context.Context, in entities.BotRuleInput) (*entities.BotRule, error) {
	in.TriggerKeyword = sanitize(in.TriggerKeyword)
	in.ResponseText = sanitize(in.ResponseText)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	rule := &entities.BotRule{
		TriggerKeyword: in.TriggerKeyword,
		ResponseText:   in.ResponseText,
		MatchType:      in.MatchType,
		IsActive:       true,
		CreatedAt:      uc.now().UTC(),
	}
	if in.IsActive != nil {
		rule.IsActive = *in.IsActive
	}
	if err := uc.rules.Create(ctx, rule); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableBotRules)
	return rule, nil
}

func (uc *BotRuleUsecase) Update(ctx context.Context, id string, patch entities.BotRulePatch) (*entities.BotRule, error) {
	if patch.TriggerKeyword != nil {
		kw := sanitize(*patch.TriggerKeyword)
		patch.TriggerKeyword = &kw
	}
	if patch.ResponseText != nil {
		text := sanitize(*patch.ResponseText)
		patch.ResponseText = &text
	}
	if err := validateStruct(patch); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.TriggerKeyword != nil {
		fields["trigger_keyword"] = *patch.TriggerKeyword
	}
	if patch.ResponseText != nil {
		fields["response_text"] = *patch.ResponseText
	}
	if patch.MatchType != nil {
		fields["match_type"] = *patch.MatchType
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if len(fields) == 0 {
		return nil, apperrors.BadRequest("no fields to update")
	}

	if err := uc.rules.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableBotRules)
	return uc.rules.FindByID(ctx, id)
}

func (uc *BotRuleUsecase) Toggle(ctx context.Context, id string, active bool) error {
	if err := uc.rules.Update(ctx, id, map[string]interface{}{"is_active": active}); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, entities.TableBotRules)
	return nil
}

func (uc *BotRuleUsecase) Delete(ctx context.Context, id string) error {
	if err := uc.rules.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, entities.TableBotRules)
	return nil
}

// Match returns the oldest active contains rule whose keyword occurs in text,
// ignoring case. It returns nil when nothing matches.
func (uc *BotRuleUsecase) Match(ctx context.Context, text string) (*entities.BotRule, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil, nil
	}
	rules, err := uc.rules.ListActive(ctx, entities.MatchContains)
	if err != nil {
		return nil, err
	}
	for i := range rules {
		kw := strings.ToLower(strings.TrimSpace(rules[i].TriggerKeyword))
		if kw != "" && strings.Contains(text, kw) {
			return &rules[i], nil
		}
	}
	return nil, nil
}
