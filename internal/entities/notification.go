package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationLead     = "lead"
	NotificationCampaign = "campaign"
	NotificationOrder    = "order"
)

// Notification is a staff-facing alert shown in the dashboard header.
type Notification struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID  string    `json:"client_id" gorm:"type:uuid;index"`
	Title     *string   `json:"title"`
	Message   *string   `json:"message"`
	Type      *string   `json:"type"`
	IsRead    bool      `json:"is_read"`
	Link      *string   `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NotificationFeed is the notification list returned to the dashboard.
type NotificationFeed struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// CampaignHistory records one campaign that was handed to the webhook.
type CampaignHistory struct {
	ID             string                      `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID       *string                     `json:"client_id" gorm:"type:uuid;index"`
	Phones         datatypes.JSONSlice[string] `json:"phones"`
	MessageText    string                      `json:"message_text"`
	RecipientCount int                         `json:"recipient_count"`
	CreatedAt      time.Time                   `json:"created_at"`
}

func (CampaignHistory) TableName() string { return "campaign_history" }

func (c *CampaignHistory) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CampaignRequest is the send-campaign payload.
type CampaignRequest struct {
	Phones  []string `json:"phones"`
	Message *string  `json:"message"`
}

// CampaignResult is the send-campaign success body.
type CampaignResult struct {
	Success        bool `json:"success"`
	RecipientCount int  `json:"recipientCount"`
}

// CampaignDispatch is the payload forwarded to the campaign webhook.
type CampaignDispatch struct {
	Phones   []string `json:"phones"`
	Message  string   `json:"message"`
	ClientID *string  `json:"client_id"`
	UserID   string   `json:"user_id"`
}
