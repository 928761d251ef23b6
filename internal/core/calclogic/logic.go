package calclogic

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"quickcalc/internal/core/model"
	"quickcalc/internal/core/secret"
)

// Options contains collaborators for Logic.
type Options struct {
	Evaluator Evaluator
	Scheduler secret.Scheduler
	Logger    *zap.Logger
}

// Logic is the object the calculator UI binds to. It owns the expression
// buffer and the secret trigger and publishes their changes.
type Logic struct {
	mu      sync.Mutex
	config  model.CalculatorConfig
	buffer  *ExpressionBuffer
	trigger *secret.Trigger
	logger  *zap.Logger
	events  []chan Event
	closed  bool
}

// New creates calculator logic with the provided configuration.
func New(config model.CalculatorConfig, options Options) *Logic {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logic := &Logic{
		config: config,
		logger: logger,
	}
	logic.buffer = NewExpressionBuffer(options.Evaluator, config.DecimalIsOperator, logger, logic.notifyLocked)
	logic.trigger = secret.NewTrigger(config.Secret, options.Scheduler, logger, logic.handleHold)
	return logic
}

// Subscribe registers a new observer channel.
func (logic *Logic) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	logic.mu.Lock()
	defer logic.mu.Unlock()
	if logic.closed {
		close(ch)
		return ch
	}
	logic.events = append(logic.events, ch)
	return ch
}

// Expression returns the current expression.
func (logic *Logic) Expression() string {
	logic.mu.Lock()
	defer logic.mu.Unlock()
	return logic.buffer.Expression()
}

// Result returns the last evaluated result.
func (logic *Logic) Result() string {
	logic.mu.Lock()
	defer logic.mu.Unlock()
	return logic.buffer.Result()
}

// SetExpression overwrites the expression.
func (logic *Logic) SetExpression(text string) {
	logic.mu.Lock()
	defer logic.mu.Unlock()
	logic.buffer.SetExpression(text)
}

// Append handles a digit or operator button press.
func (logic *Logic) Append(token string) {
	logic.mu.Lock()
	defer logic.mu.Unlock()

	if token == "" {
		logic.logger.Debug("ignoring empty token")
		return
	}
	logic.buffer.Append(token)
	if logic.trigger.Observe(token) {
		logic.openSecretLocked(secret.SourceSequence)
	}
}

// Evaluate computes the result of the current expression.
func (logic *Logic) Evaluate() {
	logic.mu.Lock()
	defer logic.mu.Unlock()

	logic.trigger.Reset()
	logic.buffer.Evaluate(context.Background())
	logic.logger.Debug("expression evaluated",
		zap.String("expression", logic.buffer.Expression()),
		zap.String("result", logic.buffer.Result()),
	)
}

// Clear resets the expression, the result and the typed digit window.
func (logic *Logic) Clear() {
	logic.mu.Lock()
	defer logic.mu.Unlock()

	logic.trigger.Reset()
	logic.buffer.Clear()
}

// StartHold arms the hold gesture on "=".
func (logic *Logic) StartHold() {
	logic.trigger.StartHold()
}

// StopHold releases the hold gesture on "=".
func (logic *Logic) StopHold() {
	logic.trigger.StopHold()
}

// Config returns the active configuration.
func (logic *Logic) Config() model.CalculatorConfig {
	logic.mu.Lock()
	defer logic.mu.Unlock()
	return logic.config
}

// UpdateConfig applies new settings without touching the expression.
func (logic *Logic) UpdateConfig(config model.CalculatorConfig) {
	logic.mu.Lock()
	defer logic.mu.Unlock()
	logic.config = config
	logic.buffer.SetDecimalIsOperator(config.DecimalIsOperator)
	logic.trigger.UpdateConfig(config.Secret)
}

// Close cancels a pending hold and closes observers.
func (logic *Logic) Close() {
	logic.trigger.Close()

	logic.mu.Lock()
	if logic.closed {
		logic.mu.Unlock()
		return
	}
	logic.closed = true
	events := logic.events
	logic.events = nil
	logic.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (logic *Logic) handleHold(source secret.Source) {
	logic.mu.Lock()
	defer logic.mu.Unlock()
	logic.openSecretLocked(source)
}

func (logic *Logic) openSecretLocked(source secret.Source) {
	logic.logger.Info("opening secret window", zap.String("source", string(source)))
	logic.emitLocked(Event{
		Type:       EventOpenSecretWindow,
		Expression: logic.buffer.Expression(),
		Result:     logic.buffer.Result(),
		Source:     source,
		At:         time.Now(),
	})
}

func (logic *Logic) notifyLocked(eventType EventType) {
	logic.emitLocked(Event{
		Type:       eventType,
		Expression: logic.buffer.Expression(),
		Result:     logic.buffer.Result(),
		At:         time.Now(),
	})
}

func (logic *Logic) emitLocked(event Event) {
	for _, ch := range logic.events {
		select {
		case ch <- event:
		default:
		}
	}
}
