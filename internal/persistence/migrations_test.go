package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.Equal(t, ups, downs)
}

func TestSchemaDefinesLiveViews(t *testing.T) {
	content, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	sql := string(content)
	for _, view := range []string{
		"live_tickets", "live_ticket_messages", "live_ticket_time_logs", "live_ticket_satisfactions",
		"live_service_catalog_items", "live_contracts", "live_contract_services", "live_assets",
		"live_company_profiles", "live_expert_profiles", "live_company_expert_links",
	} {
		assert.Contains(t, sql, "VIEW "+view+" AS", view)
	}
}

func TestRunMigrationsRequiresDSN(t *testing.T) {
	assert.Error(t, RunMigrations("", zap.NewNop()))
}
