package calclogic

import (
	"context"

	"go.uber.org/zap"
)

const (
	// ErrorResult replaces the result when the expression cannot be evaluated.
	ErrorResult = "Error"
	// EmptyResult is the result of evaluating an empty expression.
	EmptyResult = "0"
)

// Evaluator computes the display value of a finished expression.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string) (string, error)
}

// ExpressionBuffer owns the expression being typed and the last result.
// It is not safe for concurrent use.
type ExpressionBuffer struct {
	expression        string
	result            string
	decimalIsOperator bool
	evaluator         Evaluator
	logger            *zap.Logger
	notify            func(EventType)
}

// NewExpressionBuffer creates an empty buffer. notify is called after every
// change and may be nil.
func NewExpressionBuffer(evaluator Evaluator, decimalIsOperator bool, logger *zap.Logger, notify func(EventType)) *ExpressionBuffer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notify == nil {
		notify = func(EventType) {}
	}
	return &ExpressionBuffer{
		evaluator:         evaluator,
		decimalIsOperator: decimalIsOperator,
		logger:            logger,
		notify:            notify,
	}
}

// Expression returns the current expression.
func (buffer *ExpressionBuffer) Expression() string {
	return buffer.expression
}

// Result returns the last evaluated result.
func (buffer *ExpressionBuffer) Result() string {
	return buffer.result
}

// SetDecimalIsOperator toggles whether "." counts as an operator.
func (buffer *ExpressionBuffer) SetDecimalIsOperator(enabled bool) {
	buffer.decimalIsOperator = enabled
}

// Append adds token to the expression. A single operator typed right after
// another operator replaces it. Empty tokens are ignored.
func (buffer *ExpressionBuffer) Append(token string) {
	if token == "" {
		return
	}

	if buffer.expression != "" && len(token) == 1 &&
		buffer.isOperator(buffer.expression[len(buffer.expression)-1]) && buffer.isOperator(token[0]) {
		buffer.expression = buffer.expression[:len(buffer.expression)-1] + token
	} else {
		buffer.expression += token
	}
	buffer.notify(EventExpressionChanged)
}

// SetExpression overwrites the expression, notifying only on change.
func (buffer *ExpressionBuffer) SetExpression(text string) {
	if buffer.expression == text {
		return
	}
	buffer.expression = text
	buffer.notify(EventExpressionChanged)
}

// Clear empties both the expression and the result.
func (buffer *ExpressionBuffer) Clear() {
	buffer.expression = ""
	buffer.result = ""
	buffer.notify(EventExpressionChanged)
	buffer.notify(EventResultChanged)
}

// Evaluate recomputes the result from the expression. Failures are reported
// as ErrorResult and never returned.
func (buffer *ExpressionBuffer) Evaluate(ctx context.Context) {
	switch {
	case buffer.expression == "":
		buffer.result = EmptyResult
	case buffer.evaluator == nil:
		buffer.logger.Warn("no evaluator configured")
		buffer.result = ErrorResult
	default:
		value, err := buffer.evaluator.Evaluate(ctx, buffer.expression)
		if err != nil {
			buffer.logger.Warn("expression evaluation failed",
				zap.String("expression", buffer.expression),
				zap.Error(err),
			)
			buffer.result = ErrorResult
		} else {
			buffer.result = value
		}
	}
	buffer.notify(EventResultChanged)
}

func (buffer *ExpressionBuffer) isOperator(char byte) bool {
	switch char {
	case '+', '-', '*', '/':
		return true
	case '.':
		return buffer.decimalIsOperator
	}
	return false
}
