package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"gorm.io/datatypes"
)

type BotSettingsUsecase struct {
	settings repository.BotSettingsRepo
	cache    interfaces.QueryCache
}

func NewBotSettingsUsecase(settings repository.BotSettingsRepo, cache interfaces.QueryCache) *BotSettingsUsecase {
	return &BotSettingsUsecase{settings: settings, cache: cache}
}

// Get returns the tenant's settings, or nil when none were saved yet.
func (uc *BotSettingsUsecase) Get(ctx context.Context) (*entities.BotSettings, error) {
	s, err := uc.settings.Get(ctx)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return s, err
}

// Update applies patch, creating the row with defaults for the calling user
// when the tenant has none.
func (uc *BotSettingsUsecase) Update(ctx context.Context, patch entities.BotSettingsPatch) (*entities.BotSettings, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	fields, err := settingsFields(patch)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, apperrors.BadRequest("no fields to update")
	}
	return uc.upsert(ctx, fields)
}

func (uc *BotSettingsUsecase) ToggleBot(ctx context.Context, active bool) (*entities.BotSettings, error) {
	return uc.upsert(ctx, map[string]interface{}{"bot_active": active})
}

func (uc *BotSettingsUsecase) upsert(ctx context.Context, fields map[string]interface{}) (*entities.BotSettings, error) {
	current, err := uc.settings.Get(ctx)
	switch {
	case err == nil:
		if err := uc.settings.Update(ctx, current.ID, fields); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		userID, uerr := tenant.UserIDFromContext(ctx)
		if uerr != nil {
			return nil, apperrors.ErrUnauthorized
		}
		row := defaultSettings(userID)
		applySettingsFields(row, fields)
		if err := uc.settings.Create(ctx, row); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	invalidate(ctx, uc.cache, entities.TableBotSettings)
	return uc.settings.Get(ctx)
}

func defaultSettings(userID string) *entities.BotSettings {
	return &entities.BotSettings{
		UserID:          userID,
		HunterDays:      datatypes.NewJSONSlice(append([]string(nil), entities.DefaultHunterDays...)),
		HunterStartTime: entities.DefaultHunterStart,
		HunterEndTime:   entities.DefaultHunterEnd,
	}
}

// settingsFields turns a validated patch into column updates. Empty business
// hours clear the bound.
func settingsFields(p entities.BotSettingsPatch) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if p.BotActive != nil {
		fields["bot_active"] = *p.BotActive
	}
	if p.AIPersonality != nil {
		fields["ai_personality"] = optionalText(*p.AIPersonality)
	}
	if p.HunterActive != nil {
		fields["hunter_active"] = *p.HunterActive
	}
	if p.HunterMessage != nil {
		fields["hunter_message"] = optionalText(*p.HunterMessage)
	}
	if p.HunterDays != nil {
		fields["hunter_days"] = datatypes.NewJSONSlice(dedupeDays(*p.HunterDays))
	}

	clocks := []struct {
		column string
		value  *string
		clear  bool
	}{
		{"business_hours_start", p.BusinessHoursStart, true},
		{"business_hours_end", p.BusinessHoursEnd, true},
		{"hunter_start_time", p.HunterStartTime, false},
		{"hunter_end_time", p.HunterEndTime, false},
	}
	for _, c := range clocks {
		if c.value == nil {
			continue
		}
		v := strings.TrimSpace(*c.value)
		if v == "" {
			if !c.clear {
				return nil, apperrors.Validation("%s is required", c.column)
			}
			fields[c.column] = nil
			continue
		}
		norm, err := normalizeClock(v)
		if err != nil {
			return nil, err
		}
		fields[c.column] = norm
	}
	return fields, nil
}

func applySettingsFields(s *entities.BotSettings, fields map[string]interface{}) {
	str := func(v interface{}) *string {
		if p, ok := v.(*string); ok {
			return p
		}
		if v == nil {
			return nil
		}
		out := v.(string)
		return &out
	}
	for k, v := range fields {
		switch k {
		case "bot_active":
			s.BotActive = v.(bool)
		case "hunter_active":
			s.HunterActive = v.(bool)
		case "ai_personality":
			s.AIPersonality = str(v)
		case "hunter_message":
			s.HunterMessage = str(v)
		case "hunter_days":
			s.HunterDays = v.(datatypes.JSONSlice[string])
		case "business_hours_start":
			s.BusinessHoursStart = str(v)
		case "business_hours_end":
			s.BusinessHoursEnd = str(v)
		case "hunter_start_time":
			s.HunterStartTime = v.(string)
		case "hunter_end_time":
			s.HunterEndTime = v.(string)
		}
	}
}

func optionalText(s string) *string {
	s = sanitize(s)
	if s == "" {
		return nil
	}
	return &s
}

func dedupeDays(days []string) []string {
	seen := make(map[string]struct{}, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// WithinBusinessHours reports whether now, in now's location, falls inside
// the configured hours. Unset bounds mean always open; a start after the end
// wraps past midnight.
func WithinBusinessHours(s *entities.BotSettings, now time.Time) bool {
	if s == nil || s.BusinessHoursStart == nil || s.BusinessHoursEnd == nil {
		return true
	}
	start, err1 := clockMinutes(*s.BusinessHoursStart)
	end, err2 := clockMinutes(*s.BusinessHoursEnd)
	if err1 != nil || err2 != nil {
		return true
	}
	cur := now.Hour()*60 + now.Minute()
	if start <= end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

func clockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s[:min(len(s), 5)])
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
