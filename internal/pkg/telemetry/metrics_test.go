package telemetry_test

import (
	"testing"
	"time"

	"ledger-core/internal/pkg/telemetry"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndList(t *testing.T) {
	before := len(telemetry.List())
	telemetry.Record("/accounts", 200, 5*time.Millisecond)
	after := telemetry.List()
	assert.Len(t, after, before+1)
	assert.Equal(t, "/accounts", after[len(after)-1].Endpoint)
}
