package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravadigital/campus-events-api/internal/domain/common"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(nil))
	assert.Equal(t, "capacity_exceeded", Outcome(common.ErrCapacityExceeded))
	assert.Equal(t, "store_failure", Outcome(fmt.Errorf("wrapped: %w", common.StoreFailure(errors.New("db down")))))
	assert.Equal(t, "error", Outcome(errors.New("plain")))
}

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, Register)
	assert.NotPanics(t, Register)
}
