// Package metrics provides allocation-free atomic counters for the
// authentication engine. Counters live in cache-line-padded slots; a
// Snapshot is a point-in-time copy for export.
package metrics

import "sync/atomic"

// ID identifies a single counter.
type ID uint8

const (
	LoginSuccess ID = iota
	LoginFailure
	LoginRateLimited
	CodeIssued
	CodeConsumed
	CodeMismatch
	CodeRateLimited
	CodeDeliveryFailed
	AccountCreated
	AccountDuplicate
	AccountDeleted
	TokenRejected

	idCount
)

var names = [idCount]string{
	LoginSuccess:       "auth_login_success_total",
	LoginFailure:       "auth_login_failure_total",
	LoginRateLimited:   "auth_login_rate_limited_total",
	CodeIssued:         "auth_code_issued_total",
	CodeConsumed:       "auth_code_consumed_total",
	CodeMismatch:       "auth_code_mismatch_total",
	CodeRateLimited:    "auth_code_rate_limited_total",
	CodeDeliveryFailed: "auth_code_delivery_failed_total",
	AccountCreated:     "auth_account_created_total",
	AccountDuplicate:   "auth_account_duplicate_total",
	AccountDeleted:     "auth_account_deleted_total",
	TokenRejected:      "auth_token_rejected_total",
}

var helps = [idCount]string{
	LoginSuccess:       "Successful logins.",
	LoginFailure:       "Logins rejected for invalid credentials.",
	LoginRateLimited:   "Logins rejected by the lockout policy.",
	CodeIssued:         "Verification codes issued.",
	CodeConsumed:       "Verification codes consumed exactly once.",
	CodeMismatch:       "Verification code submissions that did not match.",
	CodeRateLimited:    "Code requests rejected by the resend cooldown.",
	CodeDeliveryFailed: "Code emails that failed to send (code still usable).",
	AccountCreated:     "Accounts created.",
	AccountDuplicate:   "Registrations rejected for duplicate email.",
	AccountDeleted:     "Accounts deleted by their owner.",
	TokenRejected:      "Session tokens rejected during validation.",
}

// Name returns the Prometheus metric name for id.
func (id ID) Name() string {
	if id >= idCount {
		return ""
	}
	return names[id]
}

// Help returns the metric help text for id.
func (id ID) Help() string {
	if id >= idCount {
		return ""
	}
	return helps[id]
}

// IDs lists every counter in export order.
func IDs() []ID {
	out := make([]ID, idCount)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}

type paddedCounter struct {
	value atomic.Uint64
	_     [56]byte
}

// Metrics holds the counters. A nil *Metrics is valid and a no-op.
type Metrics struct {
	counters [idCount]paddedCounter
}

func New(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	return &Metrics{}
}

func (m *Metrics) Inc(id ID) {
	if m == nil || id >= idCount {
		return
	}
	m.counters[id].value.Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters map[ID]uint64
}

func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[ID]uint64, idCount)}
	if m == nil {
		return snap
	}
	for i := range m.counters {
		snap.Counters[ID(i)] = m.counters[i].value.Load()
	}
	return snap
}
