package calclogic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	value string
	err   error
	calls []string
}

func (stub *stubEvaluator) Evaluate(_ context.Context, expression string) (string, error) {
	stub.calls = append(stub.calls, expression)
	return stub.value, stub.err
}

func newRecordingBuffer(evaluator Evaluator, decimalIsOperator bool) (*ExpressionBuffer, *[]EventType) {
	var notified []EventType
	buffer := NewExpressionBuffer(evaluator, decimalIsOperator, nil, func(eventType EventType) {
		notified = append(notified, eventType)
	})
	return buffer, &notified
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name              string
		tokens            []string
		decimalIsOperator bool
		expected          string
	}{
		{name: "digits", tokens: []string{"1", "2"}, expected: "12"},
		{name: "operator after digit", tokens: []string{"1", "+", "2"}, expected: "1+2"},
		{name: "operator replaces operator", tokens: []string{"1", "+", "*"}, expected: "1*"},
		{name: "run of operators keeps last", tokens: []string{"9", "+", "-", "*", "/"}, expected: "9/"},
		{name: "leading operator appended", tokens: []string{"-", "5"}, expected: "-5"},
		{name: "decimal replaces operator", tokens: []string{"1", "+", "."}, decimalIsOperator: true, expected: "1."},
		{name: "operator replaces decimal", tokens: []string{"1", ".", "+"}, decimalIsOperator: true, expected: "1+"},
		{name: "decimal as plain character", tokens: []string{"1", "+", "."}, expected: "1+."},
		{name: "multi-character token bypasses replace", tokens: []string{"1", "+", "*2"}, expected: "1+*2"},
		{name: "parentheses are not operators", tokens: []string{"(", "1", "+", "(", "2", ")", ")"}, expected: "(1+(2))"},
		{name: "empty token ignored", tokens: []string{"1", "", "2"}, expected: "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer, _ := newRecordingBuffer(nil, tt.decimalIsOperator)
			for _, token := range tt.tokens {
				buffer.Append(token)
			}
			assert.Equal(t, tt.expected, buffer.Expression())
		})
	}
}

func TestAppendNeverLeavesConsecutiveOperators(t *testing.T) {
	operators := []string{"+", "-", "*", "/", "."}
	buffer, _ := newRecordingBuffer(nil, true)
	buffer.Append("7")
	for i := 0; i < 50; i++ {
		buffer.Append(operators[i%len(operators)])
		if i%7 == 0 {
			buffer.Append("3")
		}
	}

	expression := buffer.Expression()
	for i := 1; i < len(expression); i++ {
		assert.False(t, buffer.isOperator(expression[i-1]) && buffer.isOperator(expression[i]),
			"consecutive operators in %q at %d", expression, i)
	}
}

func TestAppendNotifies(t *testing.T) {
	buffer, notified := newRecordingBuffer(nil, true)

	buffer.Append("1")
	buffer.Append("+")
	buffer.Append("-")
	buffer.Append("")

	assert.Equal(t, []EventType{EventExpressionChanged, EventExpressionChanged, EventExpressionChanged}, *notified)
}

func TestSetExpressionNotifiesOnlyOnChange(t *testing.T) {
	buffer, notified := newRecordingBuffer(nil, true)

	buffer.SetExpression("1+1")
	buffer.SetExpression("1+1")
	buffer.SetExpression("")

	assert.Equal(t, "", buffer.Expression())
	assert.Equal(t, []EventType{EventExpressionChanged, EventExpressionChanged}, *notified)
}

func TestClear(t *testing.T) {
	stub := &stubEvaluator{value: "3"}
	buffer, notified := newRecordingBuffer(stub, true)
	buffer.Append("1+2")
	buffer.Evaluate(context.Background())
	*notified = nil

	buffer.Clear()

	assert.Empty(t, buffer.Expression())
	assert.Empty(t, buffer.Result())
	assert.Equal(t, []EventType{EventExpressionChanged, EventResultChanged}, *notified)
}

func TestEvaluateEmptyYieldsZero(t *testing.T) {
	stub := &stubEvaluator{value: "unused"}
	buffer, notified := newRecordingBuffer(stub, true)

	buffer.Evaluate(context.Background())

	assert.Equal(t, EmptyResult, buffer.Result())
	assert.Empty(t, stub.calls)
	assert.Equal(t, []EventType{EventResultChanged}, *notified)
}

func TestEvaluateWhitespaceGoesToEvaluator(t *testing.T) {
	stub := &stubEvaluator{err: errors.New("empty")}
	buffer, _ := newRecordingBuffer(stub, true)
	buffer.SetExpression(" ")

	buffer.Evaluate(context.Background())

	assert.Equal(t, []string{" "}, stub.calls)
	assert.Equal(t, ErrorResult, buffer.Result())
}

func TestEvaluateErrorYieldsMarker(t *testing.T) {
	stub := &stubEvaluator{err: errors.New("boom")}
	buffer, _ := newRecordingBuffer(stub, true)
	buffer.Append("3+*")

	buffer.Evaluate(context.Background())

	assert.Equal(t, ErrorResult, buffer.Result())
	assert.Equal(t, "3+*", buffer.Expression())
}

func TestEvaluateKeepsExpression(t *testing.T) {
	stub := &stubEvaluator{value: "14"}
	buffer, notified := newRecordingBuffer(stub, true)
	for _, token := range []string{"2", "+", "3", "*", "4"} {
		buffer.Append(token)
	}
	*notified = nil

	buffer.Evaluate(context.Background())

	require.Equal(t, []string{"2+3*4"}, stub.calls)
	assert.Equal(t, "14", buffer.Result())
	assert.Equal(t, "2+3*4", buffer.Expression())
	assert.Equal(t, []EventType{EventResultChanged}, *notified)
}

func TestEvaluateWithoutEvaluator(t *testing.T) {
	buffer, _ := newRecordingBuffer(nil, true)
	buffer.Append("1")

	buffer.Evaluate(context.Background())

	assert.Equal(t, ErrorResult, buffer.Result())
}
