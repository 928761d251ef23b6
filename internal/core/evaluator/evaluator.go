// Package evaluator turns calculator expressions into display strings.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrSyntax is returned for expressions that do not parse or reference
	// unknown names.
	ErrSyntax = errors.New("invalid expression")
	// ErrNotNumeric is returned when the expression yields a non-number.
	ErrNotNumeric = errors.New("result is not a number")
	// ErrNotFinite is returned for division by zero and overflow.
	ErrNotFinite = errors.New("result is not finite")
)

// operatorRunes are split into separate tokens before parsing.
const operatorRunes = "+-*/()"

// exponentThreshold is the magnitude from which results switch to exponent form.
const exponentThreshold = 1e21

var tracer = otel.Tracer("quickcalc/evaluator")

// Govaluate evaluates arithmetic with github.com/Knetic/govaluate.
type Govaluate struct {
	evaluations metric.Int64Counter
	failures    metric.Int64Counter
}

// New creates an evaluator and registers its metric instruments on the
// global meter provider.
func New() (*Govaluate, error) {
	meter := otel.Meter("quickcalc/evaluator")

	evaluations, err := meter.Int64Counter("calculator.evaluations.total",
		metric.WithDescription("Total number of expressions evaluated"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating evaluations counter: %w", err)
	}

	failures, err := meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of expressions that failed to evaluate"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating errors counter: %w", err)
	}

	return &Govaluate{evaluations: evaluations, failures: failures}, nil
}

// Evaluate computes expression with standard precedence and parentheses and
// returns the formatted value.
func (evaluator *Govaluate) Evaluate(ctx context.Context, expression string) (string, error) {
	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.Int("calculator.expression.length", len(expression))),
	)
	defer span.End()

	evaluator.evaluations.Add(ctx, 1)

	value, err := compute(expression)
	if err != nil {
		evaluator.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason(err))))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	formatted := FormatNumber(value)
	span.SetAttributes(attribute.String("calculator.result", formatted))
	span.SetStatus(codes.Ok, "")
	return formatted, nil
}

func compute(expression string) (float64, error) {
	parsed, err := govaluate.NewEvaluableExpression(spaceOperators(expression))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	raw, err := parsed.Eval(govaluate.MapParameters{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	value, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: got %T", ErrNotNumeric, raw)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %s", ErrNotFinite, expression)
	}
	return value, nil
}

// spaceOperators puts spaces around operators and parentheses. govaluate
// reads a run of operator characters as one token, so "2*-3" would
// otherwise lex as the unknown operator "*-".
func spaceOperators(expression string) string {
	var spaced strings.Builder
	spaced.Grow(len(expression) * 2)
	for _, r := range expression {
		if strings.ContainsRune(operatorRunes, r) {
			spaced.WriteByte(' ')
			spaced.WriteRune(r)
			spaced.WriteByte(' ')
			continue
		}
		spaced.WriteRune(r)
	}
	return spaced.String()
}

// FormatNumber renders value as the shortest decimal that round-trips,
// without trailing zeros. Very large or small magnitudes use exponent form.
func FormatNumber(value float64) string {
	if value == 0 {
		return "0"
	}
	magnitude := math.Abs(value)
	if magnitude >= exponentThreshold || magnitude < 1e-7 {
		return strconv.FormatFloat(value, 'g', -1, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotFinite):
		return "not_finite"
	case errors.Is(err, ErrNotNumeric):
		return "not_numeric"
	default:
		return "syntax"
	}
}
