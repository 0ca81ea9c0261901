package usecases

import (
	"context"
	"strings"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

// ReplyLimiter caps automatic replies per tenant.
type ReplyLimiter interface {
	Allow(key string) bool
}

// ReplyGate serialises replies to a single contact.
type ReplyGate interface {
	Begin(clientID, phone string) bool
	Finish(clientID, phone string)
}

// BotService is the inbound pipeline of the WhatsApp bot: store the message,
// keep the lead current and answer from the keyword rules.
type BotService struct {
	inbox    *InboxUsecase
	leads    *LeadUsecase
	settings *BotSettingsUsecase
	rules    *BotRuleUsecase
	sender   interfaces.MessageSender
	limiter  ReplyLimiter
	gate     ReplyGate
}

var _ interfaces.InboundHandler = (*BotService)(nil)

func NewBotService(
	inbox *InboxUsecase,
	leads *LeadUsecase,
	settings *BotSettingsUsecase,
	rules *BotRuleUsecase,
	sender interfaces.MessageSender,
	limiter ReplyLimiter,
	gate ReplyGate,
) *BotService {
	return &BotService{
		inbox:    inbox,
		leads:    leads,
		settings: settings,
		rules:    rules,
		sender:   sender,
		limiter:  limiter,
		gate:     gate,
	}
}

// HandleInbound processes one message received by the tenant's device.
// Storage failures abort; reply problems are logged and dropped.
func (s *BotService) HandleInbound(ctx context.Context, msg entities.InboundMessage) error {
	msg.Phone = strings.TrimSpace(msg.Phone)
	if msg.ClientID == "" || msg.Phone == "" {
		return nil
	}
	if msg.At.IsZero() {
		msg.At = s.inbox.now().UTC()
	}
	ctx = tenant.WithClientID(ctx, msg.ClientID)
	log := logger.FromContext(ctx).With(zap.String("phone", msg.Phone))

	if _, err := s.inbox.RecordInbound(ctx, msg); err != nil {
		return err
	}
	if _, created, err := s.leads.TouchFromInbound(ctx, msg.Phone, msg.Name, msg.At); err != nil {
		log.Warn("Lead update failed", zap.Error(err))
	} else if created {
		log.Info("New lead from inbound message")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings == nil || !settings.BotActive {
		return nil
	}
	if !WithinBusinessHours(settings, msg.At.Local()) {
		log.Debug("Outside business hours, not replying")
		return nil
	}

	rule, err := s.rules.Match(ctx, msg.Content)
	if err != nil {
		return err
	}
	if rule == nil {
		return nil
	}
	return s.reply(ctx, log, msg, rule)
}

func (s *BotService) reply(ctx context.Context, log *zap.Logger, msg entities.InboundMessage, rule *entities.BotRule) error {
	if s.sender == nil {
		return nil
	}
	if s.gate != nil {
		if !s.gate.Begin(msg.ClientID, msg.Phone) {
			log.Debug("Reply already in progress for contact")
			return nil
		}
		defer s.gate.Finish(msg.ClientID, msg.Phone)
	}
	if s.limiter != nil && !s.limiter.Allow(msg.ClientID) {
		log.Warn("Bot reply rate limited")
		observer.IncBotMessage("dropped")
		return nil
	}

	if err := s.sender.SendText(ctx, msg.ClientID, msg.Phone, rule.ResponseText); err != nil {
		log.Warn("Bot reply failed", zap.String("rule_id", rule.ID), zap.Error(err))
		return nil
	}
	if _, err := s.inbox.RecordOutbound(ctx, msg.Phone, rule.ResponseText); err != nil {
		return err
	}
	log.Info("Bot replied", zap.String("rule_id", rule.ID))
	return nil
}
