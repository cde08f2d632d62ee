package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigratorLoadsEmbeddedFilesInOrder(t *testing.T) {
	migrations, err := NewMigrator(nil).Load()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "001_hospital.sql", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE appointments")
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, 3, migrations[2].Version)
	assert.Contains(t, migrations[2].SQL, "outbox_events")
}
