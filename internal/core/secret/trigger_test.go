package secret

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickcalc/internal/core/model"
)

type holdRecorder struct {
	mu    sync.Mutex
	fired []Source
}

func (recorder *holdRecorder) record(source Source) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.fired = append(recorder.fired, source)
}

func (recorder *holdRecorder) count() int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return len(recorder.fired)
}

func newTestTrigger(t *testing.T) (*Trigger, *ManualScheduler, *holdRecorder) {
	t.Helper()
	scheduler := &ManualScheduler{}
	recorder := &holdRecorder{}
	trigger := NewTrigger(model.DefaultCalculatorConfig().Secret, scheduler, nil, recorder.record)
	return trigger, scheduler, recorder
}

func TestObserveMatchesCode(t *testing.T) {
	trigger, _, _ := newTestTrigger(t)

	assert.False(t, trigger.Observe("1"))
	assert.False(t, trigger.Observe("2"))
	assert.True(t, trigger.Observe("3"))
	assert.Empty(t, trigger.Sequence())
}

func TestObserveKeepsTrailingDigits(t *testing.T) {
	trigger, _, _ := newTestTrigger(t)

	for _, digit := range []string{"9", "9", "1", "2"} {
		require.False(t, trigger.Observe(digit))
	}
	assert.Equal(t, "912", trigger.Sequence())
	assert.True(t, trigger.Observe("3"))
}

func TestObserveResetsOnNonDigit(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "operator", token: "+"},
		{name: "decimal point", token: "."},
		{name: "multi-digit token", token: "12"},
		{name: "parenthesis", token: "("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger, _, _ := newTestTrigger(t)
			trigger.Observe("1")
			trigger.Observe("2")

			assert.False(t, trigger.Observe(tt.token))
			assert.Empty(t, trigger.Sequence())
			assert.False(t, trigger.Observe("3"))
		})
	}
}

func TestObserveFiresOncePerMatch(t *testing.T) {
	trigger, _, _ := newTestTrigger(t)

	matches := 0
	for _, digit := range []string{"1", "2", "3", "1", "2", "3", "3"} {
		if trigger.Observe(digit) {
			matches++
		}
	}
	assert.Equal(t, 2, matches)
}

func TestResetClearsSequence(t *testing.T) {
	trigger, _, _ := newTestTrigger(t)
	trigger.Observe("1")
	trigger.Observe("2")

	trigger.Reset()

	assert.Empty(t, trigger.Sequence())
	assert.False(t, trigger.Observe("3"))
}

func TestCustomCode(t *testing.T) {
	config := model.SecretConfig{Enabled: true, Code: "4242", HoldDuration: time.Second}
	trigger := NewTrigger(config, &ManualScheduler{}, nil, nil)

	assert.False(t, trigger.Observe("4"))
	assert.False(t, trigger.Observe("2"))
	assert.False(t, trigger.Observe("4"))
	assert.True(t, trigger.Observe("2"))
}

func TestInvalidCodeFallsBackToDefault(t *testing.T) {
	config := model.SecretConfig{Enabled: true, Code: "12a"}
	scheduler := &ManualScheduler{}
	trigger := NewTrigger(config, scheduler, nil, nil)

	trigger.Observe("1")
	trigger.Observe("2")
	assert.True(t, trigger.Observe("3"))

	trigger.StartHold()
	require.Len(t, scheduler.Timers(), 1)
	assert.Equal(t, model.DefaultHoldDuration, scheduler.Timers()[0].Delay())
}

func TestHoldToExpiryFiresOnce(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	assert.True(t, trigger.Holding())
	scheduler.Expire()
	scheduler.Expire()

	assert.Equal(t, 1, recorder.count())
	assert.Equal(t, []Source{SourceHold}, recorder.fired)
	assert.False(t, trigger.Holding())

	trigger.StopHold()
	assert.Equal(t, 1, recorder.count())
}

func TestHoldReleasedEarlyNeverFires(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	trigger.StopHold()
	scheduler.Expire()

	assert.Zero(t, recorder.count())
	assert.False(t, trigger.Holding())
}

func TestStaleTimerCallbackIsIgnored(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	stale := scheduler.Timers()[0]
	trigger.StopHold()

	// A timer that already started running when Stop was called.
	stale.Fire()

	assert.Zero(t, recorder.count())
}

func TestRestartHoldReplacesPendingTimer(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	trigger.StartHold()
	require.Len(t, scheduler.Timers(), 2)
	assert.True(t, scheduler.Timers()[0].Stopped())

	scheduler.Expire()
	assert.Equal(t, 1, recorder.count())
}

func TestHoldCanBeRearmed(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	scheduler.Expire()
	trigger.StartHold()
	scheduler.Expire()

	assert.Equal(t, 2, recorder.count())
}

func TestDisabledTriggerIgnoresBothGestures(t *testing.T) {
	config := model.DefaultCalculatorConfig().Secret
	config.Enabled = false
	scheduler := &ManualScheduler{}
	recorder := &holdRecorder{}
	trigger := NewTrigger(config, scheduler, nil, recorder.record)

	trigger.Observe("1")
	trigger.Observe("2")
	assert.False(t, trigger.Observe("3"))

	trigger.StartHold()
	scheduler.Expire()
	assert.Zero(t, recorder.count())
	assert.Empty(t, scheduler.Timers())
}

func TestCloseCancelsPendingHold(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	trigger.Close()
	scheduler.Expire()
	trigger.StartHold()

	assert.Zero(t, recorder.count())
	assert.Len(t, scheduler.Timers(), 1)
}

func TestRealSchedulerFires(t *testing.T) {
	config := model.SecretConfig{Enabled: true, Code: "123", HoldDuration: 10 * time.Millisecond}
	fired := make(chan Source, 1)
	trigger := NewTrigger(config, RealScheduler{}, nil, func(source Source) {
		fired <- source
	})
	defer trigger.Close()

	trigger.StartHold()

	select {
	case source := <-fired:
		assert.Equal(t, SourceHold, source)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for hold to expire")
	}
}

func TestHoldDroppedWhenDisabledBeforeExpiry(t *testing.T) {
	trigger, scheduler, recorder := newTestTrigger(t)

	trigger.StartHold()
	config := model.DefaultCalculatorConfig().Secret
	config.Enabled = false
	trigger.UpdateConfig(config)
	scheduler.Expire()

	assert.Zero(t, recorder.count())
	assert.False(t, trigger.Holding())
}
