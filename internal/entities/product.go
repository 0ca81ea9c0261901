package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCurrency = "SAR"

// Product is a catalog item. BotNotes is extra context for bot answers.
type Product struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID      string    `json:"client_id" gorm:"type:uuid;index"`
	Name          string    `json:"name" gorm:"not null"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	Currency      string    `json:"currency"`
	StockQuantity int       `json:"stock_quantity"`
	BotNotes      *string   `json:"bot_notes"`
	ImageURL      *string   `json:"image_url" gorm:"column:image_url"`
	InStock       bool      `json:"in_stock"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProductInput is the create payload.
type ProductInput struct {
	Name          string   `json:"name" validate:"required,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency      string   `json:"currency" validate:"omitempty,min=1,max=8"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	BotNotes      *string  `json:"bot_notes" validate:"omitempty,max=5000"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	InStock       *bool    `json:"in_stock"`
}

// ProductPatch is a partial product update.
type ProductPatch struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency      *string  `json:"currency" validate:"omitempty,min=1,max=8"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	BotNotes      *string  `json:"bot_notes" validate:"omitempty,max=5000"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	InStock       *bool    `json:"in_stock"`
}
