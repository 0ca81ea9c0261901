package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a dashboard login.
type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Client is a tenant account. Every tenant-scoped row carries its id as client_id.
type Client struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Client) TableName() string { return "clients" }

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Profile links a user to its tenant. Profile.ID equals User.ID.
type Profile struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID  string    `json:"client_id" gorm:"type:uuid;not null"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (Profile) TableName() string { return "profiles" }

// Identity is the authenticated caller as seen by handlers.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID string `json:"client_id,omitempty"`
}
