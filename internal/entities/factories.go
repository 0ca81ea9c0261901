package entities

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

func init() {
	gofakeit.Seed(time.Now().UnixNano())
}

func strPtr(s string) *string { return &s }

// FakePhone returns a digits-only international phone number.
func FakePhone() string {
	return "9665" + gofakeit.Numerify("########")
}

// NewFakeMessage builds a message with random data for clientID.
func NewFakeMessage(clientID string) *Message {
	return &Message{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		ContactName:  strPtr(gofakeit.Name()),
		ContactPhone: FakePhone(),
		Content:      strPtr(gofakeit.Sentence(6)),
		IsFromBot:    gofakeit.Bool(),
		MessageType:  MessageTypeText,
		CreatedAt:    time.Now().UTC().Add(-time.Duration(gofakeit.Number(1, 600)) * time.Minute),
	}
}

// NewFakeLead builds a lead with random data for clientID.
func NewFakeLead(clientID string) *Lead {
	contact := time.Now().UTC().Add(-time.Duration(gofakeit.Number(1, 72)) * time.Hour)
	return &Lead{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		Name:          strPtr(gofakeit.Name()),
		Phone:         FakePhone(),
		Status:        LeadNew,
		Notes:         strPtr(gofakeit.Sentence(4)),
		LastContactAt: &contact,
		CreatedAt:     contact.Add(-time.Hour),
	}
}

// NewFakeProduct builds a product with random data for clientID.
func NewFakeProduct(clientID string) *Product {
	price := gofakeit.Price(5, 500)
	return &Product{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		Name:          gofakeit.ProductName(),
		Description:   strPtr(gofakeit.ProductDescription()),
		Price:         &price,
		Currency:      DefaultCurrency,
		StockQuantity: gofakeit.Number(0, 100),
		InStock:       true,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewFakeOrder builds a pending order with random data for clientID.
func NewFakeOrder(clientID string) *Order {
	amount := gofakeit.Price(10, 2000)
	now := time.Now().UTC()
	return &Order{
		ID:             uuid.NewString(),
		ClientID:       clientID,
		CustomerName:   strPtr(gofakeit.Name()),
		CustomerPhone:  strPtr(FakePhone()),
		ProductDetails: strPtr(gofakeit.ProductName()),
		TotalAmount:    &amount,
		Currency:       DefaultCurrency,
		Status:         OrderPending,
		CreatedAt:      now,
		LastUpdated:    now,
	}
}

// NewFakeBotRule builds an active contains rule for clientID.
func NewFakeBotRule(clientID string) *BotRule {
	return &BotRule{
		ID:             uuid.NewString(),
		ClientID:       clientID,
		TriggerKeyword: gofakeit.Word(),
		ResponseText:   gofakeit.Sentence(8),
		MatchType:      MatchContains,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
}

// NewFakeNotification builds an unread notification for clientID.
func NewFakeNotification(clientID string) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Title:     strPtr(gofakeit.Sentence(3)),
		Message:   strPtr(gofakeit.Sentence(8)),
		Type:      strPtr(NotificationLead),
		CreatedAt: time.Now().UTC(),
	}
}
