package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/picelmedia/wabot-admin/internal/apperrors"
	"github.com/picelmedia/wabot-admin/internal/entities"
	repomock "github.com/picelmedia/wabot-admin/internal/repository/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct{ allow bool }

func (l stubLimiter) Allow(string) bool { return l.allow }

type stubGate struct {
	open     bool
	finished int
}

func (g *stubGate) Begin(string, string) bool { return g.open }
func (g *stubGate) Finish(string, string)     { g.finished++ }

type botFixture struct {
	svc      *BotService
	messages *repomock.MessageRepoMock
	leads    *repomock.LeadRepoMock
	settings *repomock.BotSettingsRepoMock
	rules    *repomock.BotRuleRepoMock
	sender   *fakeSender
	gate     *stubGate
}

func setupBot(t *testing.T, allow bool) botFixture {
	f := botFixture{
		messages: new(repomock.MessageRepoMock),
		leads:    new(repomock.LeadRepoMock),
		settings: new(repomock.BotSettingsRepoMock),
		rules:    new(repomock.BotRuleRepoMock),
		sender:   &fakeSender{},
		gate:     &stubGate{open: true},
	}
	inbox := NewInboxUsecase(f.messages, f.sender, nil)
	leads := NewLeadUsecase(f.leads, nil, nil)
	f.svc = NewBotService(inbox, leads, NewBotSettingsUsecase(f.settings, nil), NewBotRuleUsecase(f.rules, nil),
		f.sender, stubLimiter{allow: allow}, f.gate)

	f.leads.On("FindByPhone", mock.Anything, "966500000001").Return(&entities.Lead{ID: "lead-1", Name: strPtr("Sara")}, nil)
	f.leads.On("Update", mock.Anything, "lead-1", mock.Anything).Return(nil)
	return f
}

func inbound(content string) entities.InboundMessage {
	return entities.InboundMessage{
		ClientID: testClientID,
		Phone:    "966500000001",
		Name:     "Sara",
		Content:  content,
		At:       time.Now().UTC(),
	}
}

func TestHandleInboundRepliesWithMatchingRule(t *testing.T) {
	f := setupBot(t, true)

	f.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.Message) bool { return !m.IsFromBot })).Return(nil).Once()
	f.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.Message) bool {
		return m.IsFromBot && *m.Content == "Prices start at 50 SAR"
	})).Return(nil).Once()
	f.settings.On("Get", mock.Anything).Return(&entities.BotSettings{ID: "s", BotActive: true}, nil)
	f.rules.On("ListActive", mock.Anything, entities.MatchContains).Return([]entities.BotRule{
		{ID: "r-1", TriggerKeyword: "price", ResponseText: "Prices start at 50 SAR"},
	}, nil)

	require.NoError(t, f.svc.HandleInbound(context.Background(), inbound("What is the price?")))
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, sentText{testClientID, "966500000001", "Prices start at 50 SAR"}, f.sender.sent[0])
	assert.Equal(t, 1, f.gate.finished)
	f.messages.AssertExpectations(t)
}

func TestHandleInboundBotInactive(t *testing.T) {
	f := setupBot(t, true)
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.settings.On("Get", mock.Anything).Return(&entities.BotSettings{ID: "s", BotActive: false}, nil)

	require.NoError(t, f.svc.HandleInbound(context.Background(), inbound("price")))
	assert.Empty(t, f.sender.sent)
	f.rules.AssertNotCalled(t, "ListActive", mock.Anything, mock.Anything)
}

func TestHandleInboundNoSettingsNoReply(t *testing.T) {
	f := setupBot(t, true)
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.settings.On("Get", mock.Anything).Return(nil, apperrors.ErrNotFound)

	require.NoError(t, f.svc.HandleInbound(context.Background(), inbound("price")))
	assert.Empty(t, f.sender.sent)
}

func TestHandleInboundRateLimited(t *testing.T) {
	f := setupBot(t, false)
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.settings.On("Get", mock.Anything).Return(&entities.BotSettings{ID: "s", BotActive: true}, nil)
	f.rules.On("ListActive", mock.Anything, entities.MatchContains).Return([]entities.BotRule{
		{ID: "r-1", TriggerKeyword: "price", ResponseText: "x"},
	}, nil)

	require.NoError(t, f.svc.HandleInbound(context.Background(), inbound("price")))
	assert.Empty(t, f.sender.sent)
	f.messages.AssertNumberOfCalls(t, "Create", 1)
}

func TestHandleInboundStorageFailureAborts(t *testing.T) {
	f := setupBot(t, true)
	f.messages.On("Create", mock.Anything, mock.Anything).Return(apperrors.ErrDatabase)

	err := f.svc.HandleInbound(context.Background(), inbound("price"))
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	f.leads.AssertNotCalled(t, "FindByPhone", mock.Anything, mock.Anything)
}

func TestHandleInboundIgnoresEmptyTenant(t *testing.T) {
	f := setupBot(t, true)
	msg := inbound("price")
	msg.ClientID = ""
	require.NoError(t, f.svc.HandleInbound(context.Background(), msg))
	f.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
