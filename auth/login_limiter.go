package auth

import (
	"hash/fnv"
	"sync"
	"time"
)

const limiterShardCount = 32

type attemptRecord struct {
	count int
	last  time.Time
}

type limiterShard struct {
	mu      sync.Mutex
	records map[string]attemptRecord
}

// loginLimiter tracks failed-or-pending login attempts per normalized
// identifier. State is process-local; the counter resets when an attempt
// arrives more than Window after the previous one.
type loginLimiter struct {
	cfg    LoginConfig
	shards [limiterShardCount]*limiterShard

	// now is swapped in tests to drive the window and lockout clock.
	now func() time.Time
}

func newLoginLimiter(cfg LoginConfig) *loginLimiter {
	l := &loginLimiter{
		cfg: cfg,
		now: time.Now,
	}
	for i := range l.shards {
		l.shards[i] = &limiterShard{records: make(map[string]attemptRecord)}
	}
	return l
}

func (l *loginLimiter) shard(identifier string) *limiterShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identifier))
	return l.shards[h.Sum32()%limiterShardCount]
}

// CheckAndRecord counts one attempt against identifier and reports whether
// it may proceed. The attempt is recorded before the decision, so probing a
// locked identifier extends nothing but also reveals nothing. A positive
// retryAfter accompanies every denial.
func (l *loginLimiter) CheckAndRecord(identifier string) (allowed bool, retryAfter time.Duration) {
	s := l.shard(identifier)
	now := l.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identifier]
	if !ok || now.Sub(rec.last) > l.cfg.Window {
		s.records[identifier] = attemptRecord{count: 1, last: now}
		return true, 0
	}

	rec.count++
	rec.last = now
	s.records[identifier] = rec

	if rec.count > l.cfg.MaxAttempts {
		return false, l.cfg.LockoutDuration
	}
	return true, 0
}

// Clear forgets all attempts for identifier. Called after a successful login.
func (l *loginLimiter) Clear(identifier string) {
	s := l.shard(identifier)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, identifier)
}
