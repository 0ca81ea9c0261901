package infrastructure

import (
	"strings"
	"testing"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationStatements_TriggerPerTable(t *testing.T) {
	stmts, err := migrationStatements("dashboard_changes")
	require.NoError(t, err)

	all := strings.Join(stmts, "\n")
	for _, table := range entities.ChangeTables {
		assert.Contains(t, all, "CREATE TRIGGER "+table+"_notify_change AFTER INSERT OR UPDATE OR DELETE ON "+table)
	}
	assert.Contains(t, all, "notify_dashboard_change('dashboard_changes')")
	assert.Contains(t, all, "CREATE OR REPLACE VIEW customer_360")
}

func TestMigrationStatements_RejectsBadChannel(t *testing.T) {
	_, err := migrationStatements("changes'); DROP TABLE users; --")
	assert.Error(t, err)

	_, err = migrationStatements("")
	assert.Error(t, err)
}
