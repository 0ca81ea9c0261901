package repository

import (
	"context"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *entities.Message) error {
	if err := ownRow(ctx, &msg.ClientID); err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(msg).Error, "create message")
}

func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Model(&entities.Message{}).Count(&n).Error; err != nil {
		return 0, translateError(err, "count messages")
	}
	return n, nil
}

func (r *MessageRepository) Recent(ctx context.Context, limit int) ([]entities.Message, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var msgs []entities.Message
	if err := q.Order("created_at DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, translateError(err, "recent messages")
	}
	return msgs, nil
}

const contactsQuery = `SELECT phone, name, last_message, last_message_time FROM (
	SELECT DISTINCT ON (contact_phone)
		contact_phone AS phone, contact_name AS name, content AS last_message, created_at AS last_message_time
	FROM messages
	WHERE client_id = ?
	ORDER BY contact_phone, created_at DESC
) latest
ORDER BY last_message_time DESC`

// Contacts returns one entry per contact phone built from its latest message,
// most recent conversation first.
func (r *MessageRepository) Contacts(ctx context.Context) ([]entities.InboxContact, error) {
	_, clientID, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var contacts []entities.InboxContact
	if err := r.db.WithContext(ctx).Raw(contactsQuery, clientID).Scan(&contacts).Error; err != nil {
		return nil, translateError(err, "inbox contacts")
	}
	return contacts, nil
}

// Conversation returns every message exchanged with phone, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, phone string) ([]entities.Message, error) {
	q, _, err := scoped(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var msgs []entities.Message
	if err := q.Where("contact_phone = ?", phone).Order("created_at ASC").Find(&msgs).Error; err != nil {
		return nil, translateError(err, "conversation")
	}
	return msgs, nil
}
