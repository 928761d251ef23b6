package secret

import (
	"sync"

	"go.uber.org/zap"

	"quickcalc/internal/core/model"
)

// Source identifies which gesture opened the secret window.
type Source string

const (
	SourceNone     Source = ""
	SourceSequence Source = "sequence"
	SourceHold     Source = "hold"
)

// Trigger watches typed digits and the hold gesture on "=".
//
// Observe reports a match through its return value. A hold that
// runs to expiry calls the fire callback from the scheduler's goroutine;
// Trigger never holds its own lock while doing so.
type Trigger struct {
	mu         sync.Mutex
	config     model.SecretConfig
	scheduler  Scheduler
	logger     *zap.Logger
	onHold     func(Source)
	sequence   []byte
	timer      Timer
	generation uint64
	armed      bool
	closed     bool
}

// NewTrigger creates a trigger. onHold is called when a hold expires.
func NewTrigger(config model.SecretConfig, scheduler Scheduler, logger *zap.Logger, onHold func(Source)) *Trigger {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trigger{
		config:    normalizeConfig(config),
		scheduler: scheduler,
		logger:    logger,
		onHold:    onHold,
	}
}

// UpdateConfig replaces the trigger settings and resets the digit window.
// A pending hold keeps its original deadline but is dropped if the trigger
// has been disabled by the time it expires.
func (trigger *Trigger) UpdateConfig(config model.SecretConfig) {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	trigger.config = normalizeConfig(config)
	trigger.sequence = trigger.sequence[:0]
}

// Observe records an appended token and reports whether it completed the
// secret code.
func (trigger *Trigger) Observe(token string) bool {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()

	if len(token) != 1 || token[0] < '0' || token[0] > '9' {
		trigger.sequence = trigger.sequence[:0]
		return false
	}
	if !trigger.config.Enabled {
		return false
	}

	code := trigger.config.Code
	trigger.sequence = append(trigger.sequence, token[0])
	if overflow := len(trigger.sequence) - len(code); overflow > 0 {
		trigger.sequence = append(trigger.sequence[:0], trigger.sequence[overflow:]...)
	}
	if string(trigger.sequence) != code {
		return false
	}

	trigger.sequence = trigger.sequence[:0]
	trigger.logger.Debug("secret sequence matched")
	return true
}

// Reset clears the digit window.
func (trigger *Trigger) Reset() {
	trigger.mu.Lock()
	trigger.sequence = trigger.sequence[:0]
	trigger.mu.Unlock()
}

// Sequence returns the digits currently tracked.
func (trigger *Trigger) Sequence() string {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	return string(trigger.sequence)
}

// StartHold arms the hold timer, replacing any pending one.
func (trigger *Trigger) StartHold() {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()

	if trigger.closed || !trigger.config.Enabled {
		return
	}
	trigger.stopTimerLocked()

	trigger.generation++
	generation := trigger.generation
	trigger.armed = true
	trigger.timer = trigger.scheduler.AfterFunc(trigger.config.HoldDuration, func() {
		trigger.expire(generation)
	})
	trigger.logger.Debug("hold timer armed", zap.Duration("after", trigger.config.HoldDuration))
}

// StopHold cancels a pending hold without firing.
func (trigger *Trigger) StopHold() {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	if trigger.armed {
		trigger.logger.Debug("hold released before expiry")
	}
	trigger.stopTimerLocked()
}

// Holding reports whether a hold timer is pending.
func (trigger *Trigger) Holding() bool {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	return trigger.armed
}

// Close cancels any pending hold. Later holds are ignored.
func (trigger *Trigger) Close() {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	trigger.closed = true
	trigger.stopTimerLocked()
}

func (trigger *Trigger) expire(generation uint64) {
	trigger.mu.Lock()
	if !trigger.armed || trigger.generation != generation {
		trigger.mu.Unlock()
		return
	}
	trigger.armed = false
	trigger.timer = nil
	enabled := trigger.config.Enabled
	onHold := trigger.onHold
	trigger.mu.Unlock()

	if !enabled {
		return
	}

	trigger.logger.Debug("hold timer expired")
	if onHold != nil {
		onHold(SourceHold)
	}
}

func (trigger *Trigger) stopTimerLocked() {
	if trigger.timer != nil {
		trigger.timer.Stop()
		trigger.timer = nil
	}
	trigger.armed = false
}

func normalizeConfig(config model.SecretConfig) model.SecretConfig {
	defaults := model.DefaultCalculatorConfig().Secret
	if !model.ValidSecretCode(config.Code) {
		config.Code = defaults.Code
	}
	if config.HoldDuration <= 0 {
		config.HoldDuration = defaults.HoldDuration
	}
	return config
}
