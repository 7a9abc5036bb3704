package assert

import (
	"sync"

	"osptest/internal/domain"
)

// Register is the ordered sequence of pending assertion records of the test
// case being executed. The executing case resets it before running and
// reads it once the body has returned or was aborted.
type Register struct {
	mu      sync.Mutex
	records []domain.AssertRecord
}

// NewRegister creates an empty Register
func NewRegister() *Register {
	return &Register{}
}

// Push appends a record
func (r *Register) Push(rec domain.AssertRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Pop removes and returns the last record
func (r *Register) Pop() (domain.AssertRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return domain.AssertRecord{}, false
	}
	last := r.records[len(r.records)-1]
	r.records = r.records[:len(r.records)-1]
	return last, true
}

// Reset drops all pending records before a new case runs
func (r *Register) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
}

// Count returns the number of pending records
func (r *Register) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// ResultType returns the kind of the last record, AssertSuccess if there is none
func (r *Register) ResultType() domain.AssertKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return domain.AssertSuccess
	}
	return r.records[len(r.records)-1].Kind
}

// HasFailResult reports whether any pending record is a failed assertion or check
func (r *Register) HasFailResult() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Kind.Failed() {
			return true
		}
	}
	return false
}

// LastFailure returns the most recent failed record
func (r *Register) LastFailure() (domain.AssertRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Kind.Failed() {
			return r.records[i], true
		}
	}
	return domain.AssertRecord{}, false
}

// Failures returns a copy of the failed records in recorded order
func (r *Register) Failures() []domain.AssertRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AssertRecord
	for _, rec := range r.records {
		if rec.Kind.Failed() {
			out = append(out, rec)
		}
	}
	return out
}

// Records returns a copy of all pending records
func (r *Register) Records() []domain.AssertRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AssertRecord, len(r.records))
	copy(out, r.records)
	return out
}
