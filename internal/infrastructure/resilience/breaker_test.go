package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestBreaker(threshold uint32) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	return New("test", Settings{
		Threshold: threshold,
		Cooldown:  time.Minute,
		Now:       clock.Now,
	}), clock
}

var errFailed = errors.New("failed")

func fail() error    { return errFailed }
func succeed() error { return nil }

func TestBreakerStates(t *testing.T) {
	tests := []struct {
		name          string
		calls         []bool
		expectedState State
	}{
		{"all success", []bool{true, true, true}, StateClosed},
		{"below threshold", []bool{false, false}, StateClosed},
		{"reaches threshold", []bool{false, false, false}, StateOpen},
		{"success resets streak", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breaker, _ := newTestBreaker(3)
			for _, ok := range tt.calls {
				if ok {
					_ = breaker.Do(succeed)
				} else {
					_ = breaker.Do(fail)
				}
			}
			assert.Equal(t, tt.expectedState, breaker.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	breaker, _ := newTestBreaker(3)

	require.NoError(t, breaker.Do(succeed))
	assert.ErrorIs(t, breaker.Do(fail), errFailed)

	counts := breaker.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
}

func TestBreakerOpenRejects(t *testing.T) {
	breaker, _ := newTestBreaker(2)
	_ = breaker.Do(fail)
	_ = breaker.Do(fail)

	called := false
	err := breaker.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	breaker, clock := newTestBreaker(1)
	_ = breaker.Do(fail)
	require.Equal(t, StateOpen, breaker.State())

	clock.Advance(time.Minute)
	assert.Equal(t, StateHalfOpen, breaker.State())

	require.NoError(t, breaker.Allow())
	assert.ErrorIs(t, breaker.Allow(), ErrOpen, "only one probe at a time")
	breaker.Record(true)
	assert.Equal(t, StateClosed, breaker.State())
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	breaker, clock := newTestBreaker(1)
	_ = breaker.Do(fail)
	clock.Advance(time.Minute)

	assert.ErrorIs(t, breaker.Do(fail), errFailed)
	assert.Equal(t, StateOpen, breaker.State())

	clock.Advance(30 * time.Second)
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	breaker, _ := newTestBreaker(1)

	assert.Panics(t, func() {
		_ = breaker.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, breaker.State())
}

func TestBreakerCallbacks(t *testing.T) {
	var transitions []string
	clock := &fakeClock{now: time.Unix(0, 0)}
	breaker := New("test", Settings{
		Threshold: 1,
		Cooldown:  time.Second,
		Now:       clock.Now,
		OnStateChange: func(name string, from State, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = breaker.Do(fail)
	clock.Advance(time.Second)
	_ = breaker.Do(succeed)

	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreakerReset(t *testing.T) {
	breaker, _ := newTestBreaker(1)
	_ = breaker.Do(fail)
	breaker.Reset()

	assert.Equal(t, StateClosed, breaker.State())
	assert.Equal(t, Counts{}, breaker.Counts())
}

func TestSet(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	set := NewSet(Settings{Threshold: 1, Cooldown: time.Minute, Now: clock.Now})

	assert.Same(t, set.Get("a"), set.Get("a"))

	_ = set.Get("a").Do(fail)
	_ = set.Get("b").Do(succeed)
	assert.Equal(t, []string{"a"}, set.Open())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = set.Get("c").Do(succeed)
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(8), set.Get("c").Counts().Requests)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
