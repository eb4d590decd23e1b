package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMigrations_OrderedAndComplete(t *testing.T) {
	migrations := GetMigrations()

	seen := make(map[string]bool)
	prev := ""
	for _, m := range migrations {
		assert.False(t, seen[m.ID], "duplicate migration id %s", m.ID)
		seen[m.ID] = true
		assert.Greater(t, m.ID, prev, "migrations must be in ascending order")
		prev = m.ID

		assert.NotEmpty(t, m.Name)
		assert.NotNil(t, m.Up, m.ID)
		assert.NotNil(t, m.Down, m.ID)
	}
}

func TestGetMigrations_OnlySampleDataIsSeed(t *testing.T) {
	for _, m := range GetMigrations() {
		assert.Equal(t, m.Name == "insert_sample_data", m.Seed, m.ID)
	}
}
