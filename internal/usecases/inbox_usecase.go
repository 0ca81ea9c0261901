package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/internal/interfaces"
	"github.com/picelmedia/wabot-admin/internal/observer"
	"github.com/picelmedia/wabot-admin/internal/repository"
	"github.com/picelmedia/wabot-admin/internal/tenant"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
)

const maxReplyLength = 4096

type InboxUsecase struct {
	messages repository.MessageRepo
	sender   interfaces.MessageSender
	cache    interfaces.QueryCache
	now      func() time.Time
}

func NewInboxUsecase(messages repository.MessageRepo, sender interfaces.MessageSender, cache interfaces.QueryCache) *InboxUsecase {
	return &InboxUsecase{messages: messages, sender: sender, cache: cache, now: time.Now}
}

// ListContacts returns one entry per phone, most recent conversation first.
func (uc *InboxUsecase) ListContacts(ctx context.Context) ([]entities.InboxContact, error) {
	contacts, err := uc.messages.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(contacts), nil
}

func (uc *InboxUsecase) Conversation(ctx context.Context, phone string) ([]entities.Message, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.BadRequest("phone is required")
	}
	msgs, err := uc.messages.Conversation(ctx, phone)
	if err != nil {
		return nil, err
	}
	return emptyIfNil(msgs), nil
}

// RecordInbound stores a message received from a contact.
func (uc *InboxUsecase) RecordInbound(ctx context.Context, in entities.InboundMessage) (*entities.Message, error) {
	content := in.Content
	msg := &entities.Message{
		ContactPhone: in.Phone,
		Content:      &content,
		IsFromBot:    false,
		CreatedAt:    in.At,
	}
	if in.Name != "" {
		name := in.Name
		msg.ContactName = &name
	}
	if err := uc.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	observer.IncBotMessage("inbound")
	invalidate(ctx, uc.cache, entities.TableMessages)
	return msg, nil
}

// RecordOutbound stores a message sent from the tenant's number.
func (uc *InboxUsecase) RecordOutbound(ctx context.Context, phone, content string) (*entities.Message, error) {
	msg := &entities.Message{
		ContactPhone: phone,
		Content:      &content,
		IsFromBot:    true,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	observer.IncBotMessage("outbound")
	invalidate(ctx, uc.cache, entities.TableMessages)
	return msg, nil
}

// SendReply sends a staff reply through the tenant's device and records it.
func (uc *InboxUsecase) SendReply(ctx context.Context, phone, content string) (*entities.Message, error) {
	phone = strings.TrimSpace(phone)
	content = sanitize(content)
	if phone == "" {
		return nil, apperrors.BadRequest("phone is required")
	}
	if content == "" {
		return nil, apperrors.Validation("message is required")
	}
	if len(content) > maxReplyLength {
		return nil, apperrors.Validation("message must be at most %d characters", maxReplyLength)
	}
	if uc.sender == nil {
		return nil, apperrors.New(apperrors.ErrUnavailable, "WhatsApp is not enabled")
	}

	clientID, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if err := uc.sender.SendText(ctx, clientID, phone, content); err != nil {
		logger.FromContext(ctx).Warn("Reply send failed", zap.String("phone", phone), zap.Error(err))
		return nil, err
	}
	return uc.RecordOutbound(ctx, phone, content)
}
