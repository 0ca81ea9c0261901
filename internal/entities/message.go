package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageTypeText = "text"
)

// Message is one chat turn between a contact and the tenant's WhatsApp number.
type Message struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID     string    `json:"client_id" gorm:"type:uuid;index"`
	ContactName  *string   `json:"contact_name"`
	ContactPhone string    `json:"contact_phone" gorm:"not null;index"`
	Content      *string   `json:"content"`
	IsFromBot    bool      `json:"is_from_bot"`
	MessageType  string    `json:"message_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.MessageType == "" {
		m.MessageType = MessageTypeText
	}
	return nil
}

// InboxContact is the inbox list entry: one per phone, built from its latest message.
type InboxContact struct {
	Phone           string    `json:"phone"`
	Name            *string   `json:"name"`
	LastMessage     *string   `json:"lastMessage"`
	LastMessageTime time.Time `json:"lastMessageTime"`
}

// InboundMessage is a message received by the bot runtime before it is stored.
type InboundMessage struct {
	ClientID string
	Phone    string
	Name     string
	Content  string
	At       time.Time
}
