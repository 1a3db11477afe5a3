package subpay

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReconciliationEntry records a transfer that completed on-chain but
// whose subscription creation failed. Funds moved; the record must not
// be lost.
type ReconciliationEntry struct {
	ID              string       `json:"id"`
	UserAddress     string       `json:"userAddress"`
	PlanID          string       `json:"planId"`
	BillingCycle    BillingCycle `json:"billingCycle"`
	Amount          float64      `json:"amount"`
	TransactionHash string       `json:"transactionHash"`
	Reason          string       `json:"reason"`
	RecordedAt      time.Time    `json:"recordedAt"`
}

// ReconciliationJournal retains funds-moved-but-unrecorded payment
// attempts for operator reconciliation. In-memory and mutex-guarded;
// single-instance deployments can inspect it over an admin surface, and
// distributed deployments should replace it with a shared backend.
type ReconciliationJournal struct {
	mu      sync.Mutex
	entries []ReconciliationEntry
}

// NewReconciliationJournal creates an empty journal.
func NewReconciliationJournal() *ReconciliationJournal {
	return &ReconciliationJournal{}
}

// Record appends an entry and returns its assigned id.
func (j *ReconciliationJournal) Record(entry ReconciliationEntry) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry.ID = "rec_" + uuid.NewString()
	entry.RecordedAt = time.Now().UTC()
	j.entries = append(j.entries, entry)
	return entry.ID
}

// Entries returns a copy of all recorded entries.
func (j *ReconciliationJournal) Entries() []ReconciliationEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]ReconciliationEntry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded entries.
func (j *ReconciliationJournal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
