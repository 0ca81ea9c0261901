package mock

import (
	"context"
	"time"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/mock"
)

// --- UserRepo Mock ---

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateAccount(ctx context.Context, user *entities.User, client *entities.Client, profile *entities.Profile) error {
	args := m.Called(ctx, user, client, profile)
	return args.Error(0)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *UserRepoMock) FindProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

// --- MessageRepo Mock ---

type MessageRepoMock struct {
	mock.Mock
}

func (m *MessageRepoMock) Create(ctx context.Context, msg *entities.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepoMock) Recent(ctx context.Context, limit int) ([]entities.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Message), args.Error(1)
}

func (m *MessageRepoMock) Contacts(ctx context.Context) ([]entities.InboxContact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.InboxContact), args.Error(1)
}

func (m *MessageRepoMock) Conversation(ctx context.Context, phone string) ([]entities.Message, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Message), args.Error(1)
}

// --- LeadRepo Mock ---

type LeadRepoMock struct {
	mock.Mock
}

func (m *LeadRepoMock) List(ctx context.Context, filter entities.LeadFilter) ([]entities.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Lead), args.Error(1)
}

func (m *LeadRepoMock) FindByID(ctx context.Context, id string) (*entities.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lead), args.Error(1)
}

func (m *LeadRepoMock) FindByPhone(ctx context.Context, phone string) (*entities.Lead, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lead), args.Error(1)
}

func (m *LeadRepoMock) Create(ctx context.Context, lead *entities.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *LeadRepoMock) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *LeadRepoMock) CountByStatus(ctx context.Context, status entities.LeadStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LeadRepoMock) Customer360(ctx context.Context) ([]entities.Customer360, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Customer360), args.Error(1)
}

// --- ProductRepo Mock ---

type ProductRepoMock struct {
	mock.Mock
}

func (m *ProductRepoMock) List(ctx context.Context) ([]entities.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Product), args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (*entities.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, product *entities.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *ProductRepoMock) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- OrderRepo Mock ---

type OrderRepoMock struct {
	mock.Mock
}

func (m *OrderRepoMock) List(ctx context.Context) ([]entities.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Order), args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *entities.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, id string, status entities.OrderStatus, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- BotRuleRepo Mock ---

type BotRuleRepoMock struct {
	mock.Mock
}

func (m *BotRuleRepoMock) List(ctx context.Context) ([]entities.BotRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.BotRule), args.Error(1)
}

func (m *BotRuleRepoMock) ListActive(ctx context.Context, matchType entities.MatchType) ([]entities.BotRule, error) {
	args := m.Called(ctx, matchType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.BotRule), args.Error(1)
}

func (m *BotRuleRepoMock) FindByID(ctx context.Context, id string) (*entities.BotRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BotRule), args.Error(1)
}

func (m *BotRuleRepoMock) Create(ctx context.Context, rule *entities.BotRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *BotRuleRepoMock) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *BotRuleRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- BotSettingsRepo Mock ---

type BotSettingsRepoMock struct {
	mock.Mock
}

func (m *BotSettingsRepoMock) Get(ctx context.Context) (*entities.BotSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BotSettings), args.Error(1)
}

func (m *BotSettingsRepoMock) Create(ctx context.Context, settings *entities.BotSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *BotSettingsRepoMock) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// --- NotificationRepo Mock ---

type NotificationRepoMock struct {
	mock.Mock
}

func (m *NotificationRepoMock) Latest(ctx context.Context, limit int) ([]entities.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Notification), args.Error(1)
}

func (m *NotificationRepoMock) Create(ctx context.Context, n *entities.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NotificationRepoMock) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepoMock) MarkAllRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- CampaignRepo Mock ---

type CampaignRepoMock struct {
	mock.Mock
}

func (m *CampaignRepoMock) Create(ctx context.Context, c *entities.CampaignHistory) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CampaignRepoMock) Latest(ctx context.Context, limit int) ([]entities.CampaignHistory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.CampaignHistory), args.Error(1)
}
