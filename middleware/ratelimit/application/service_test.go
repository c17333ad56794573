package application

import (
	"testing"
	"time"

	"frontdoor/middleware/ratelimit/domain"
)

type fakeLimiter struct {
	allow bool
	calls int
}

func (f *fakeLimiter) Allow() bool {
	f.calls++
	return f.allow
}

type fakeStore struct {
	lim domain.Limiter
}

func (s fakeStore) Get(domain.Key) domain.Limiter { return s.lim }

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide("10.0.0.1")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_AllowsWhenBucketHasToken(t *testing.T) {
	lim := &fakeLimiter{allow: true}
	svc := Service{Store: fakeStore{lim: lim}, RetryAfter: 5 * time.Second}
	dec := svc.Decide("10.0.0.1")
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if lim.calls != 1 {
		t.Fatalf("expected exactly one Allow call, got %d", lim.calls)
	}
}

func TestService_Decide_RejectsWithDefaultRetryAfter(t *testing.T) {
	svc := Service{Store: fakeStore{lim: &fakeLimiter{allow: false}}}
	dec := svc.Decide("10.0.0.1")
	if dec.Allowed {
		t.Fatalf("expected rejected")
	}
	if dec.RetryAfter != 1*time.Second {
		t.Fatalf("expected default RetryAfter=1s, got %s", dec.RetryAfter)
	}
}

func TestService_Decide_RejectsWithConfiguredRetryAfter(t *testing.T) {
	svc := Service{Store: fakeStore{lim: &fakeLimiter{allow: false}}, RetryAfter: 2500 * time.Millisecond}
	dec := svc.Decide("10.0.0.1")
	if dec.Allowed {
		t.Fatalf("expected rejected")
	}
	if dec.RetryAfter != 2500*time.Millisecond {
		t.Fatalf("expected RetryAfter=2.5s, got %s", dec.RetryAfter)
	}
}
