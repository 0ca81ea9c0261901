package entities

import "time"

const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Tables that emit change events.
const (
	TableMessages        = "messages"
	TableLeads           = "leads"
	TableProducts        = "products"
	TableOrders          = "orders"
	TableBotRules        = "bot_rules"
	TableBotSettings     = "bot_settings"
	TableNotifications   = "notifications"
	TableCampaignHistory = "campaign_history"
)

// ChangeTables lists every table with a change trigger.
var ChangeTables = []string{
	TableMessages, TableLeads, TableProducts, TableOrders,
	TableBotRules, TableBotSettings, TableNotifications, TableCampaignHistory,
}

// ChangeEvent is a row-level change pushed to realtime subscribers.
type ChangeEvent struct {
	Table    string    `json:"table"`
	Op       string    `json:"op"`
	ID       string    `json:"id"`
	ClientID string    `json:"client_id"`
	At       time.Time `json:"at"`
}
