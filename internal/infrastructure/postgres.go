package infrastructure

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/picelmedia/wabot-admin/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

// NewPostgresClient opens and pings a pgx pool.
func NewPostgresClient(ctx context.Context, connString string, maxConns, minConns int32) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if minConns > 0 {
		config.MinConns = minConns
	}
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresClient{Pool: pool}, nil
}

// OpenGorm returns a gorm handle sharing the pgx pool.
func (p *PostgresClient) OpenGorm() (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(p.Pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

func (p *PostgresClient) Ping(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

var channelName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Migrate creates the schema, the customer_360 view and the change triggers
// that notify channel.
func (p *PostgresClient) Migrate(ctx context.Context, channel string) error {
	stmts, err := migrationStatements(channel)
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}

	var users int
	if err := p.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users == 0 {
		logger.Log.Info("Database initialized with no users; admin will be ensured on boot")
	}
	logger.Log.Info("Migrations applied", zap.Int("steps", len(stmts)), zap.String("channel", channel))
	return nil
}

func migrationStatements(channel string) ([]string, error) {
	if !channelName.MatchString(channel) {
		return nil, fmt.Errorf("invalid notify channel %q", channel)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			email VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			contact_name TEXT,
			contact_phone VARCHAR(32) NOT NULL,
			content TEXT,
			is_from_bot BOOLEAN NOT NULL DEFAULT false,
			message_type VARCHAR(20) NOT NULL DEFAULT 'text',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_client_phone ON messages (client_id, contact_phone, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS leads (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name TEXT,
			phone VARCHAR(32) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'new' CHECK (status IN (
				'new','inquiry','potential','order_placed','complaint',
				'closed','contacted','qualified','converted','lost')),
			notes TEXT,
			ai_summary TEXT,
			last_contact_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (client_id, phone)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(12, 2) CHECK (price >= 0),
			currency VARCHAR(8) NOT NULL DEFAULT 'SAR',
			stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
			bot_notes TEXT,
			image_url TEXT,
			in_stock BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			customer_name TEXT,
			customer_phone VARCHAR(32),
			product_details TEXT,
			total_amount NUMERIC(12, 2),
			currency VARCHAR(8) NOT NULL DEFAULT 'SAR',
			shipping_address TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending' CHECK (status IN (
				'Pending','Processing','Shipped','Delivered','Cancelled')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bot_rules (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			trigger_keyword TEXT NOT NULL,
			response_text TEXT NOT NULL,
			match_type VARCHAR(20) NOT NULL DEFAULT 'contains' CHECK (match_type IN ('contains','ai_knowledge')),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bot_settings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID REFERENCES users(id) ON DELETE SET NULL,
			client_id UUID NOT NULL UNIQUE REFERENCES clients(id) ON DELETE CASCADE,
			bot_active BOOLEAN NOT NULL DEFAULT false,
			ai_personality TEXT,
			business_hours_start VARCHAR(8),
			business_hours_end VARCHAR(8),
			hunter_active BOOLEAN NOT NULL DEFAULT false,
			hunter_message TEXT,
			hunter_days JSONB NOT NULL DEFAULT '["sunday","monday","tuesday","wednesday","thursday"]',
			hunter_start_time VARCHAR(8) NOT NULL DEFAULT '09:00:00',
			hunter_end_time VARCHAR(8) NOT NULL DEFAULT '21:00:00'
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			title TEXT,
			message TEXT,
			type VARCHAR(32),
			is_read BOOLEAN NOT NULL DEFAULT false,
			link TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS campaign_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id UUID REFERENCES clients(id) ON DELETE CASCADE,
			phones JSONB NOT NULL DEFAULT '[]',
			message_text TEXT NOT NULL,
			recipient_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE OR REPLACE VIEW customer_360 AS
		SELECT l.id, l.name, l.phone, l.status AS lead_status,
			COUNT(o.id) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_spent,
			MAX(o.created_at) AS last_order_date,
			l.last_contact_at, l.client_id
		FROM leads l
		LEFT JOIN orders o ON o.customer_phone = l.phone AND o.client_id = l.client_id
		GROUP BY l.id`,
		`CREATE OR REPLACE FUNCTION notify_dashboard_change() RETURNS trigger AS $$
		DECLARE
			rec RECORD;
		BEGIN
			IF TG_OP = 'DELETE' THEN
				rec := OLD;
			ELSE
				rec := NEW;
			END IF;
			PERFORM pg_notify(TG_ARGV[0], json_build_object(
				'table', TG_TABLE_NAME,
				'op', TG_OP,
				'id', rec.id,
				'client_id', rec.client_id)::text);
			RETURN NULL;
		END;
		$$ LANGUAGE plpgsql`,
	}

	for _, table := range entities.ChangeTables {
		trigger := table + "_notify_change"
		stmts = append(stmts,
			fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s`, trigger, table),
			fmt.Sprintf(`CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s
				FOR EACH ROW EXECUTE FUNCTION notify_dashboard_change('%s')`, trigger, table, channel),
		)
	}
	return stmts, nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
