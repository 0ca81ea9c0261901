package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus is the sales pipeline stage of a lead.
type LeadStatus string

const (
	LeadNew         LeadStatus = "new"
	LeadInquiry     LeadStatus = "inquiry"
	LeadPotential   LeadStatus = "potential"
	LeadOrderPlaced LeadStatus = "order_placed"
	LeadComplaint   LeadStatus = "complaint"
	LeadClosed      LeadStatus = "closed"
	LeadContacted   LeadStatus = "contacted"
	LeadQualified   LeadStatus = "qualified"
	LeadConverted   LeadStatus = "converted"
	LeadLost        LeadStatus = "lost"
)

var leadStatuses = map[LeadStatus]struct{}{
	LeadNew: {}, LeadInquiry: {}, LeadPotential: {}, LeadOrderPlaced: {}, LeadComplaint: {},
	LeadClosed: {}, LeadContacted: {}, LeadQualified: {}, LeadConverted: {}, LeadLost: {},
}

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	_, ok := leadStatuses[s]
	return ok
}

// Lead is a contact tracked through the sales pipeline. Phone is the natural
// key shared with messages and orders.
type Lead struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID      string     `json:"client_id" gorm:"type:uuid;index"`
	Name          *string    `json:"name"`
	Phone         string     `json:"phone" gorm:"not null"`
	Status        LeadStatus `json:"status"`
	Notes         *string    `json:"notes"`
	AISummary     *string    `json:"ai_summary" gorm:"column:ai_summary"`
	LastContactAt *time.Time `json:"last_contact_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (Lead) TableName() string { return "leads" }

func (l *Lead) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = LeadNew
	}
	return nil
}

// LeadFilter narrows a lead listing.
type LeadFilter struct {
	Status LeadStatus
	Search string
}

// LeadPatch is a partial lead update.
type LeadPatch struct {
	Name   *string     `json:"name" validate:"omitempty,max=200"`
	Status *LeadStatus `json:"status"`
	Notes  *string     `json:"notes" validate:"omitempty,max=5000"`
}

// Customer360 is a lead joined with its order aggregates.
type Customer360 struct {
	ID            string     `json:"id"`
	Name          *string    `json:"name"`
	Phone         string     `json:"phone"`
	LeadStatus    *string    `json:"lead_status"`
	TotalOrders   int64      `json:"total_orders"`
	TotalSpent    float64    `json:"total_spent"`
	LastOrderDate *time.Time `json:"last_order_date"`
	LastContactAt *time.Time `json:"last_contact_at"`
	ClientID      string     `json:"client_id"`
}

func (Customer360) TableName() string { return "customer_360" }
