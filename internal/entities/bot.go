package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MatchType selects how a bot rule is applied.
type MatchType string

const (
	MatchContains    MatchType = "contains"
	MatchAIKnowledge MatchType = "ai_knowledge"
)

// Valid reports whether m is a known match type.
func (m MatchType) Valid() bool {
	return m == MatchContains || m == MatchAIKnowledge
}

// BotRule is a keyword auto-reply or an AI knowledge entry.
type BotRule struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID       string    `json:"client_id" gorm:"type:uuid;index"`
	TriggerKeyword string    `json:"trigger_keyword"`
	ResponseText   string    `json:"response_text"`
	MatchType      MatchType `json:"match_type"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (BotRule) TableName() string { return "bot_rules" }

func (r *BotRule) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// BotRuleInput is the create payload. IsActive defaults to true.
type BotRuleInput struct {
	TriggerKeyword string    `json:"trigger_keyword" validate:"required,max=500"`
	ResponseText   string    `json:"response_text" validate:"required,max=5000"`
	MatchType      MatchType `json:"match_type" validate:"required,oneof=contains ai_knowledge"`
	IsActive       *bool     `json:"is_active"`
}

// BotRulePatch is a partial rule update.
type BotRulePatch struct {
	TriggerKeyword *string    `json:"trigger_keyword" validate:"omitempty,min=1,max=500"`
	ResponseText   *string    `json:"response_text" validate:"omitempty,min=1,max=5000"`
	MatchType      *MatchType `json:"match_type" validate:"omitempty,oneof=contains ai_knowledge"`
	IsActive       *bool      `json:"is_active"`
}

// DefaultHunterDays are the campaign-hunter days used when none are stored.
var DefaultHunterDays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday"}

const (
	DefaultHunterStart = "09:00:00"
	DefaultHunterEnd   = "21:00:00"
)

// BotSettings is the per-tenant bot configuration. Times are "HH:MM:SS".
type BotSettings struct {
	ID                 string                      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             string                      `json:"user_id" gorm:"type:uuid"`
	ClientID           string                      `json:"client_id" gorm:"type:uuid;uniqueIndex"`
	BotActive          bool                        `json:"bot_active"`
	AIPersonality      *string                     `json:"ai_personality" gorm:"column:ai_personality"`
	BusinessHoursStart *string                     `json:"business_hours_start"`
	BusinessHoursEnd   *string                     `json:"business_hours_end"`
	HunterActive       bool                        `json:"hunter_active"`
	HunterMessage      *string                     `json:"hunter_message"`
	HunterDays         datatypes.JSONSlice[string] `json:"hunter_days"`
	HunterStartTime    string                      `json:"hunter_start_time"`
	HunterEndTime      string                      `json:"hunter_end_time"`
}

func (BotSettings) TableName() string { return "bot_settings" }

func (s *BotSettings) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// BotSettingsPatch is a partial settings update. Empty strings clear the
// business hours.
type BotSettingsPatch struct {
	BotActive          *bool     `json:"bot_active"`
	AIPersonality      *string   `json:"ai_personality" validate:"omitempty,max=5000"`
	BusinessHoursStart *string   `json:"business_hours_start" validate:"omitempty,clock_or_blank"`
	BusinessHoursEnd   *string   `json:"business_hours_end" validate:"omitempty,clock_or_blank"`
	HunterActive       *bool     `json:"hunter_active"`
	HunterMessage      *string   `json:"hunter_message" validate:"omitempty,max=5000"`
	HunterDays         *[]string `json:"hunter_days" validate:"omitempty,dive,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	HunterStartTime    *string   `json:"hunter_start_time" validate:"omitempty,clock"`
	HunterEndTime      *string   `json:"hunter_end_time" validate:"omitempty,clock"`
}
