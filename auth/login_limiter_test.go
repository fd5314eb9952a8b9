package auth

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLoginConfig() LoginConfig {
	return LoginConfig{
		MaxAttempts:     3,
		Window:          15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
	}
}

func TestLimiterAllowsUpToMaxAttempts(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	for i := 0; i < 3; i++ {
		allowed, _ := l.CheckAndRecord("alice@example.com")
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	allowed, retryAfter := l.CheckAndRecord("alice@example.com")
	if allowed {
		t.Fatal("fourth attempt should be locked out")
	}
	if retryAfter != 30*time.Minute {
		t.Fatalf("unexpected retryAfter: %s", retryAfter)
	}
}

func TestLimiterWindowReset(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	current := time.Now()
	l.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if allowed, _ := l.CheckAndRecord("bob"); !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}

	// Past the inactivity window the counter starts over.
	current = current.Add(16 * time.Minute)
	if allowed, _ := l.CheckAndRecord("bob"); !allowed {
		t.Fatal("attempt after window expiry should be allowed")
	}
	if allowed, _ := l.CheckAndRecord("bob"); !allowed {
		t.Fatal("second attempt after reset should be allowed")
	}
}

func TestLimiterDeniedAttemptExtendsWindow(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	current := time.Now()
	l.now = func() time.Time { return current }

	for i := 0; i < 4; i++ {
		l.CheckAndRecord("carol")
	}

	// Probing 14 minutes later still counts as activity, so the lock holds.
	current = current.Add(14 * time.Minute)
	if allowed, _ := l.CheckAndRecord("carol"); allowed {
		t.Fatal("attempt inside the window should remain locked")
	}
}

func TestLimiterClear(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	for i := 0; i < 4; i++ {
		l.CheckAndRecord("dave")
	}
	if allowed, _ := l.CheckAndRecord("dave"); allowed {
		t.Fatal("expected lockout before Clear")
	}

	l.Clear("dave")
	if allowed, _ := l.CheckAndRecord("dave"); !allowed {
		t.Fatal("expected fresh budget after Clear")
	}
}

func TestLimiterIdentifiersAreIndependent(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	for i := 0; i < 4; i++ {
		l.CheckAndRecord("locked@example.com")
	}

	if allowed, _ := l.CheckAndRecord("other@example.com"); !allowed {
		t.Fatal("unrelated identifier should not be affected")
	}
}

func TestLimiterConcurrentExactBudget(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	const goroutines = 50
	var allowedCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.CheckAndRecord("contended"); allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowedCount.Load(); got != 3 {
		t.Fatalf("expected exactly 3 allowed attempts, got %d", got)
	}
}

func TestLimiterConcurrentDistinctIdentifiers(t *testing.T) {
	l := newLoginLimiter(testLoginConfig())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", n)
			for j := 0; j < 3; j++ {
				if allowed, _ := l.CheckAndRecord(id); !allowed {
					t.Errorf("identifier %s attempt %d unexpectedly locked", id, j+1)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
