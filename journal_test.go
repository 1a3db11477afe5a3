package subpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciliationJournal(t *testing.T) {
	journal := NewReconciliationJournal()
	assert.Zero(t, journal.Len())

	id := journal.Record(ReconciliationEntry{
		UserAddress:     "0x1111111111111111111111111111111111111111",
		PlanID:          "pro",
		BillingCycle:    BillingQuarterly,
		Amount:          1350,
		TransactionHash: "0x" + strings.Repeat("00", 32),
		Reason:          "gateway unavailable",
	})
	assert.True(t, strings.HasPrefix(id, "rec_"))
	require.Equal(t, 1, journal.Len())

	entries := journal.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, "pro", entries[0].PlanID)
	assert.False(t, entries[0].RecordedAt.IsZero())

	// Entries returns a copy; mutating it must not affect the journal.
	entries[0].PlanID = "mutated"
	assert.Equal(t, "pro", journal.Entries()[0].PlanID)
}
