package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/campus-events-api/internal/config"
)

func TestValidateStorageType(t *testing.T) {
	st, err := ValidateStorageType("memory")
	require.NoError(t, err)
	assert.Equal(t, StorageTypeMemory, st)

	_, err = ValidateStorageType("mongodb")
	assert.Error(t, err)
}

func TestFactory_CreatesMemoryStore(t *testing.T) {
	store, err := NewFactory(StorageTypeMemory).CreateStore(&config.Config{})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
}
